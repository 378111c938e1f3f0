package drift

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"
)

// versionTimeout bounds a single "java -version" call.
const versionTimeout = 10 * time.Second

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// QueryActive finds java on PATH and detects its version. It returns nil
// when there is none.
func QueryActive(ctx context.Context) *Java {
	path, err := lookPath("java")
	if err != nil {
		return nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}

	version, err := DetectVersion(ctx, resolved)
	if err != nil {
		version = "unknown"
	}
	return &Java{Path: resolved, Version: version}
}

// DetectVersion runs "java -version". The JDK prints the version banner to
// stderr, so both streams are searched.
func DetectVersion(ctx context.Context, javaPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, javaPath, "-version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s -version: %w", javaPath, err)
	}
	return ExtractVersion(out.String())
}

var (
	quotedVersion = regexp.MustCompile(`version "([^"]+)"`)
	bareVersion   = regexp.MustCompile(`\d+(\.\d+)+`)
)

// ExtractVersion extracts the version from "java -version" output, for
// example "21.0.5" from `openjdk version "21.0.5" 2024-10-15`.
func ExtractVersion(output string) (string, error) {
	if m := quotedVersion.FindStringSubmatch(output); m != nil {
		return m[1], nil
	}
	if v := bareVersion.FindString(output); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no version found in output")
}
