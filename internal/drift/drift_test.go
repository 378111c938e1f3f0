package drift

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// mockJava writes a fake java binary under home/bin that prints banner to
// stderr and exits with code.
func mockJava(t *testing.T, home, banner string, code int) string {
	t.Helper()

	bin := filepath.Join(home, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(bin, "java")
	script := "#!/bin/sh\necho '" + banner + "' >&2\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write java: %v", err)
	}
	return path
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "openjdk_21", output: `openjdk version "21.0.5" 2024-10-15 LTS`, want: "21.0.5"},
		{name: "initial_ga", output: `openjdk version "21" 2023-09-19`, want: "21"},
		{name: "legacy_8", output: `openjdk version "1.8.0_392"`, want: "1.8.0_392"},
		{name: "oracle", output: `java version "17.0.9" 2023-10-17 LTS`, want: "17.0.9"},
		{name: "bare", output: "Runtime 11.0.21+9", want: "11.0.21"},
		{name: "none", output: "command not found", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVersion(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	installDir := t.TempDir()
	defaultHome := filepath.Join(installDir, "jdk-21.0.5+11")
	otherHome := filepath.Join(installDir, "jdk-17.0.13+11")
	for _, dir := range []string{defaultHome, otherHome} {
		if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	external := filepath.Join(t.TempDir(), "usr", "bin", "java")

	baseline := Baseline{InstallDir: installDir, DefaultName: "jdk-21.0.5+11", DefaultHome: defaultHome}
	active := func(path, version string) *Java { return &Java{Path: path, Version: version} }

	tests := []struct {
		name     string
		baseline Baseline
		javaHome string
		active   *Java
		want     DriftType
	}{
		{
			name:     "ok",
			baseline: baseline,
			javaHome: defaultHome,
			active:   active(filepath.Join(defaultHome, "bin", "java"), "21.0.5"),
			want:     DriftOK,
		},
		{
			name:     "no_default",
			baseline: Baseline{InstallDir: installDir},
			active:   active(external, "17"),
			want:     DriftNoDefault,
		},
		{
			name:     "not_active",
			baseline: baseline,
			javaHome: defaultHome,
			want:     DriftNotActive,
		},
		{
			name:     "external_override",
			baseline: baseline,
			javaHome: defaultHome,
			active:   active(external, "11.0.2"),
			want:     DriftExternalOverride,
		},
		{
			name:     "other_managed",
			baseline: baseline,
			javaHome: otherHome,
			active:   active(filepath.Join(otherHome, "bin", "java"), "17.0.13"),
			want:     DriftOtherManaged,
		},
		{
			name:     "java_home_unset",
			baseline: baseline,
			active:   active(filepath.Join(defaultHome, "bin", "java"), "21.0.5"),
			want:     DriftJavaHomeMismatch,
		},
		{
			name:     "java_home_elsewhere",
			baseline: baseline,
			javaHome: otherHome,
			active:   active(filepath.Join(defaultHome, "bin", "java"), "21.0.5"),
			want:     DriftJavaHomeMismatch,
		},
		{
			name:     "version_unknown",
			baseline: baseline,
			javaHome: defaultHome,
			active:   active(filepath.Join(defaultHome, "bin", "java"), "unknown"),
			want:     DriftVersionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.baseline, tt.javaHome, tt.active); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUnder(t *testing.T) {
	root := filepath.Join(string(os.PathSeparator), "jdks")

	tests := []struct {
		path string
		want bool
	}{
		{path: filepath.Join(root, "jdk-21", "bin", "java"), want: true},
		{path: root, want: true},
		{path: filepath.Join(string(os.PathSeparator), "jdks-other", "bin", "java"), want: false},
		{path: filepath.Join(string(os.PathSeparator), "usr", "bin", "java"), want: false},
		{path: "", want: false},
	}

	for _, tt := range tests {
		if got := isUnder(tt.path, root); got != tt.want {
			t.Errorf("isUnder(%q) = %t, want %t", tt.path, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	installDir := t.TempDir()
	home := filepath.Join(installDir, "jdk-21.0.5+11")
	java := mockJava(t, home, `openjdk version "21.0.5" 2024-10-15 LTS`, 0)

	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(string) (string, error) { return java, nil }
	t.Setenv("JAVA_HOME", home)

	r := Detect(context.Background(), Baseline{InstallDir: installDir, DefaultName: "jdk-21.0.5+11", DefaultHome: home})

	if r.DriftType != DriftOK {
		t.Fatalf("DriftType = %v, want OK", r.DriftType)
	}
	if r.Active == nil || r.Active.Version != "21.0.5" {
		t.Errorf("Active = %+v", r.Active)
	}
	if r.JavaHome != home {
		t.Errorf("JavaHome = %q", r.JavaHome)
	}
}

func TestQueryActive(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	t.Run("missing", func(t *testing.T) {
		lookPath = func(string) (string, error) { return "", errors.New("not found") }
		if got := QueryActive(context.Background()); got != nil {
			t.Errorf("QueryActive() = %+v, want nil", got)
		}
	})

	t.Run("version_failure", func(t *testing.T) {
		java := mockJava(t, t.TempDir(), "Error: broken", 1)
		lookPath = func(string) (string, error) { return java, nil }

		got := QueryActive(context.Background())
		if got == nil || got.Version != "unknown" {
			t.Fatalf("QueryActive() = %+v, want unknown version", got)
		}
	})

	t.Run("symlink_resolved", func(t *testing.T) {
		home := t.TempDir()
		java := mockJava(t, home, `openjdk version "17.0.13"`, 0)
		link := filepath.Join(t.TempDir(), "java")
		if err := os.Symlink(java, link); err != nil {
			t.Fatalf("symlink: %v", err)
		}
		lookPath = func(string) (string, error) { return link, nil }

		got := QueryActive(context.Background())
		if got == nil {
			t.Fatal("QueryActive() = nil")
		}
		want, _ := filepath.EvalSymlinks(java)
		if got.Path != want || got.Version != "17.0.13" {
			t.Errorf("QueryActive() = %+v", got)
		}
	})
}

func TestFormatReport(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   []string
	}{
		{
			name: "ok",
			report: Report{
				DriftType: DriftOK,
				Baseline:  Baseline{DefaultName: "jdk-21", DefaultHome: "/jdks/jdk-21"},
				JavaHome:  "/jdks/jdk-21",
				Active:    &Java{Path: "/jdks/jdk-21/bin/java", Version: "21.0.5"},
			},
			want: []string{"Default:    jdk-21 (/jdks/jdk-21)", "java:       /jdks/jdk-21/bin/java (21.0.5)", "✓ The default JDK is active"},
		},
		{
			name:   "no_default",
			report: Report{DriftType: DriftNoDefault},
			want:   []string{"Default:    none", "JAVA_HOME:  not set", "not found on PATH", "✗ No default JDK selected", "jvman install"},
		},
		{
			name: "external",
			report: Report{
				DriftType: DriftExternalOverride,
				Baseline:  Baseline{DefaultName: "jdk-21", DefaultHome: "/jdks/jdk-21"},
				Active:    &Java{Path: "/usr/bin/java", Version: "11.0.2"},
			},
			want: []string{"not managed by jvman", "jvman activate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatReport(tt.report)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestDriftTypeString(t *testing.T) {
	if got := DriftJavaHomeMismatch.String(); got != "JAVA_HOME_MISMATCH" {
		t.Errorf("String() = %q", got)
	}
	if got := DriftType(99).String(); got != "UNKNOWN" {
		t.Errorf("String() = %q", got)
	}
}
