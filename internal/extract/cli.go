package extract

import (
	"context"
	"fmt"
	"os/exec"
)

// cliBackend runs an external tool to unpack formats without a Go decoder.
type cliBackend struct {
	name       string
	binaryPath string
	args       func(archivePath, destDir string) []string
}

// Name returns the format name.
func (b *cliBackend) Name() string {
	return b.name
}

// Extract runs the tool and reports its output on failure.
func (b *cliBackend) Extract(ctx context.Context, archivePath, destDir string) error {
	cmd := exec.CommandContext(ctx, b.binaryPath, b.args(archivePath, destDir)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s extraction failed: %w\nOutput: %s", b.name, err, string(output))
	}
	return nil
}

// newCLI7z returns a 7z backend if 7z or 7za is on PATH.
func newCLI7z() (*cliBackend, error) {
	var path string
	var err error
	for _, name := range []string{"7z", "7za"} {
		if path, err = lookPath(name); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("7z binary not found in PATH: %w", err)
	}

	return &cliBackend{
		name:       "7z",
		binaryPath: path,
		args: func(archivePath, destDir string) []string {
			// x = extract with full paths, -y = assume yes
			return []string{"x", "-y", "-o" + destDir, archivePath}
		},
	}, nil
}

// newCLITarXz returns a tar.xz backend if tar is on PATH.
func newCLITarXz() (*cliBackend, error) {
	path, err := lookPath("tar")
	if err != nil {
		return nil, fmt.Errorf("tar binary not found in PATH: %w", err)
	}

	return &cliBackend{
		name:       "tar.xz",
		binaryPath: path,
		args: func(archivePath, destDir string) []string {
			return []string{"-xJf", archivePath, "-C", destDir}
		},
	}, nil
}
