package shell

import "fmt"

// ActivationMarker appears in every line Setup writes.
const ActivationMarker = "jvman activate"

// BackupSuffix is appended to rc file backups.
const BackupSuffix = ".jvman-backup"

// ShellType represents a supported shell
type ShellType string

const (
	ShellBash    ShellType = "bash"
	ShellZsh     ShellType = "zsh"
	ShellFish    ShellType = "fish"
	ShellUnknown ShellType = "unknown"
)

func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// ParseShell maps a shell name such as "zsh" to its ShellType.
func ParseShell(name string) (ShellType, error) {
	s := ShellType(name)
	if err := ValidateShell(s); err != nil {
		return ShellUnknown, err
	}
	return s, nil
}

// ValidateShell validates that a shell type is supported
func ValidateShell(shell ShellType) error {
	if !shell.IsValid() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}

// SupportedShells returns the shells jvman can activate.
func SupportedShells() []ShellType {
	return []ShellType{ShellBash, ShellZsh, ShellFish}
}

// SetupOptions controls Setup.
type SetupOptions struct {
	// Backup copies the rc file before modifying it.
	Backup bool
	// DryRun reports what would change without writing.
	DryRun bool
}

// SetupResult describes what Setup did.
type SetupResult struct {
	Shell             ShellType
	RCFile            string
	Added             bool
	AlreadyPresent    bool
	BackupPath        string
	ActivationCommand string
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	Shell     ShellType
	Method    string
	ShellPath string
	// Confidence is high, medium or none.
	Confidence string
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish)", e.Shell)
}

// RCFileError represents an error with shell rc file operations
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}
