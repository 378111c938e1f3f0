package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/jvman/internal/platform"
	"github.com/ZebulonRouseFrantzich/jvman/internal/testutil"
)

func linuxDetector(family string) platform.Detector {
	return platform.StaticDetector{Info: &platform.Info{
		OS:       "linux",
		Arch:     "amd64",
		ArchRaw:  "amd64",
		Platform: family,
		Family:   family,
	}}
}

func TestParser_ParseString_Minimal(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	cfg, err := NewParser(nil, nil).ParseString(context.Background(), `jvman = {}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if *cfg != *want {
		t.Errorf("empty table should keep defaults:\ngot  %+v\nwant %+v", cfg, want)
	}
	if cfg.InstallDir != filepath.Join(env.JvmanHome, "jdks") {
		t.Errorf("InstallDir = %s", cfg.InstallDir)
	}
	if cfg.DownloadDir != env.Downloads {
		t.Errorf("DownloadDir = %s, want %s", cfg.DownloadDir, env.Downloads)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	luaCode := `
		jvman = {
			download_dir = "~/archives",
			install_dir  = "/opt/jdks",
			chunk_size   = 65536,
			in_memory    = true,
			user_agent   = "custom/2.0",
			log_level    = "DEBUG",
			catalog = {
				base_url        = "https://mirror.example",
				feature_version = 17,
				release_type    = "ea",
				image_type      = "jre",
				jvm_impl        = "openj9",
				heap_size       = "large",
				vendor          = "ibm",
			},
		}
	`

	cfg, err := NewParser(nil, nil).ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if cfg.DownloadDir != filepath.Join(env.Home, "archives") {
		t.Errorf("DownloadDir = %s", cfg.DownloadDir)
	}
	if cfg.InstallDir != "/opt/jdks" {
		t.Errorf("InstallDir = %s", cfg.InstallDir)
	}
	if cfg.ChunkSize != 65536 || !cfg.InMemory || cfg.UserAgent != "custom/2.0" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}

	want := CatalogConfig{
		BaseURL:        "https://mirror.example",
		FeatureVersion: 17,
		ReleaseType:    "ea",
		ImageType:      "jre",
		JVMImpl:        "openj9",
		HeapSize:       "large",
		Vendor:         "ibm",
	}
	if cfg.Catalog != want {
		t.Errorf("Catalog = %+v, want %+v", cfg.Catalog, want)
	}
}

func TestParser_ParseString_PlatformConditionals(t *testing.T) {
	testutil.SetupTestEnv(t)

	luaCode := `
		jvman = {
			chunk_size = platform.is_linux and 4096 or 1024,
			catalog = {
				image_type = platform.when(platform.is_musl, "jre"),
			},
		}
	`

	tests := []struct {
		name      string
		detector  platform.Detector
		wantImage string
	}{
		{name: "alpine", detector: linuxDetector(platform.FamilyAlpine), wantImage: "jre"},
		{name: "debian", detector: linuxDetector(platform.FamilyDebian), wantImage: "jdk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewParser(tt.detector, nil).ParseString(context.Background(), luaCode)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if cfg.ChunkSize != 4096 {
				t.Errorf("ChunkSize = %d, want 4096", cfg.ChunkSize)
			}
			if cfg.Catalog.ImageType != tt.wantImage {
				t.Errorf("ImageType = %s, want %s", cfg.Catalog.ImageType, tt.wantImage)
			}
		})
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	testutil.SetupTestEnv(t)

	tests := []struct {
		name    string
		code    string
		wantMsg string
	}{
		{name: "syntax", code: `jvman = {`, wantMsg: "Lua error"},
		{name: "missing_table", code: `x = 1`, wantMsg: "missing or invalid 'jvman' table"},
		{name: "not_a_table", code: `jvman = "hello"`, wantMsg: "missing or invalid 'jvman' table"},
		{name: "wrong_type", code: `jvman = { chunk_size = "big" }`, wantMsg: "invalid field type"},
		{name: "fractional", code: `jvman = { chunk_size = 1.5 }`, wantMsg: "invalid field type"},
		{name: "catalog_wrong_type", code: `jvman = { catalog = 21 }`, wantMsg: "invalid field type"},
		{name: "catalog_field_type", code: `jvman = { catalog = { feature_version = "21" } }`, wantMsg: "catalog.feature_version"},
		{name: "zero_chunk", code: `jvman = { chunk_size = 0 }`, wantMsg: "config validation failed"},
		{name: "bad_level", code: `jvman = { log_level = "trace" }`, wantMsg: "config validation failed"},
		{name: "relative_dir", code: `jvman = { install_dir = "jdks" }`, wantMsg: "install_dir"},
		{name: "old_feature", code: `jvman = { catalog = { feature_version = 6 } }`, wantMsg: "feature_version"},
		{name: "bad_base_url", code: `jvman = { catalog = { base_url = "ftp://x" } }`, wantMsg: "base_url"},
		{name: "runtime_error", code: `error("boom")`, wantMsg: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil, nil).ParseString(context.Background(), tt.code)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParser_ParseString_Timeout(t *testing.T) {
	testutil.SetupTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser(nil, nil).ParseString(ctx, `while true do end`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Message, "timed out") {
		t.Errorf("Message = %q", parseErr.Message)
	}
}

func TestParser_ParseString_DetectorError(t *testing.T) {
	testutil.SetupTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(linuxDetector("debian"), nil).ParseString(ctx, `jvman = {}`)
	if err == nil || !strings.Contains(err.Error(), "platform detection failed") {
		t.Errorf("expected platform detection error, got %v", err)
	}
}

func TestParser_Load(t *testing.T) {
	t.Run("missing_file_uses_defaults", func(t *testing.T) {
		testutil.SetupTestEnv(t)

		cfg, err := NewParser(nil, nil).Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ChunkSize != 1024 {
			t.Errorf("ChunkSize = %d, want 1024", cfg.ChunkSize)
		}
	})

	t.Run("reads_config_lua", func(t *testing.T) {
		env := testutil.SetupTestEnv(t)
		testutil.WriteFile(t, env.JvmanHome, ConfigFileName, `jvman = { chunk_size = 2048 }`)

		cfg, err := NewParser(nil, nil).Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ChunkSize != 2048 {
			t.Errorf("ChunkSize = %d, want 2048", cfg.ChunkSize)
		}
	})

	t.Run("too_large", func(t *testing.T) {
		env := testutil.SetupTestEnv(t)
		big := "jvman = {}\n--" + strings.Repeat("x", MaxConfigSize)
		testutil.WriteFile(t, env.JvmanHome, ConfigFileName, big)

		_, err := NewParser(nil, nil).Load(context.Background())
		var parseErr *ParseError
		if !errors.As(err, &parseErr) || parseErr.Message != "config file too large" {
			t.Errorf("expected size error, got %v", err)
		}
	})

	t.Run("unreadable", func(t *testing.T) {
		env := testutil.SetupTestEnv(t)
		// A directory where the file should be
		if err := os.MkdirAll(filepath.Join(env.JvmanHome, ConfigFileName), 0755); err != nil {
			t.Fatal(err)
		}

		if _, err := NewParser(nil, nil).Load(context.Background()); err == nil {
			t.Error("expected error reading a directory")
		}
	})
}

func TestFormatError(t *testing.T) {
	err := &ParseError{
		Message: "Lua error",
		Detail:  "<string>:1: boom\nstack traceback:\n\t[G]: in function 'error'",
	}

	if got := FormatError(err, false); got != "Lua error: <string>:1: boom" {
		t.Errorf("FormatError(false) = %q", got)
	}
	if got := FormatError(err, true); !strings.Contains(got, "stack traceback") {
		t.Errorf("FormatError(true) = %q", got)
	}
	if got := FormatError(errors.New("plain"), false); got != "plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}
}
