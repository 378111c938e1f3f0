package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RCFilePath returns the startup file jvman edits for shell.
func RCFilePath(shell ShellType) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	switch shell {
	case ShellBash:
		return filepath.Join(homeDir, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc"), nil
	default:
		return filepath.Join(homeDir, ".config", "fish", "config.fish"), nil
	}
}

// checkRCPath rejects symlinks and anything that is not a regular file.
// A missing file is fine.
func checkRCPath(rcPath string) error {
	info, err := os.Lstat(rcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to stat file", Cause: err}
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return &RCFileError{Path: rcPath, Message: "refusing to modify a symlink"}
	}
	if !info.Mode().IsRegular() {
		return &RCFileError{Path: rcPath, Message: "not a regular file"}
	}
	return nil
}

// HasActivationLine reports whether rcPath already activates jvman.
// Commented-out lines don't count.
func HasActivationLine(rcPath string) (bool, error) {
	file, err := os.Open(rcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &RCFileError{Path: rcPath, Message: "failed to open file", Cause: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ActivationMarker) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}
	return false, nil
}

// BackupRCFile copies rcPath next to itself with BackupSuffix.
func BackupRCFile(rcPath string) (string, error) {
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", &RCFileError{Path: rcPath, Message: "failed to read file for backup", Cause: err}
	}

	backupPath := rcPath + BackupSuffix
	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return "", &RCFileError{Path: backupPath, Message: "failed to write backup file", Cause: err}
	}
	return backupPath, nil
}

// isActivationCommand accepts only lines ActivationCommand produces.
func isActivationCommand(cmd string) bool {
	for _, s := range SupportedShells() {
		if want, _ := ActivationCommand(s); cmd == want {
			return true
		}
	}
	return false
}

// AddActivationLine appends activationCommand to rcPath through a temp file
// and rename, creating the file and its directory when missing.
func AddActivationLine(rcPath, activationCommand string) error {
	if !isActivationCommand(activationCommand) {
		return &RCFileError{Path: rcPath, Message: fmt.Sprintf("invalid activation command format: %q", activationCommand)}
	}
	if err := checkRCPath(rcPath); err != nil {
		return err
	}

	existing, err := os.ReadFile(rcPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &RCFileError{Path: rcPath, Message: "failed to read existing file", Cause: err}
	}

	dir := filepath.Dir(rcPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create parent directory", Cause: err}
	}

	var buf strings.Builder
	buf.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		buf.WriteString("\n")
	}
	fmt.Fprintf(&buf, "\n# jvman - JDK manager\n%s\n", activationCommand)

	tmpFile, err := os.CreateTemp(dir, ".jvman-tmp-*")
	if err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create temporary file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(buf.String()); err != nil {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: "failed to write activation line", Cause: err}
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: "failed to sync file", Cause: err}
	}
	if err := tmpFile.Close(); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to close temporary file", Cause: err}
	}

	// Keep the original permissions; CreateTemp uses 0600.
	mode := os.FileMode(0644)
	if info, err := os.Stat(rcPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to set permissions", Cause: err}
	}

	if err := os.Rename(tmpPath, rcPath); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to rename temp file", Cause: err}
	}
	return nil
}
