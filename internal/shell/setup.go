package shell

import (
	"fmt"
	"os"
)

// Setup adds the activation line for shell to its rc file unless one is
// already there.
func Setup(shell ShellType, opts SetupOptions) (*SetupResult, error) {
	activationCmd, err := ActivationCommand(shell)
	if err != nil {
		return nil, err
	}

	rcPath, err := RCFilePath(shell)
	if err != nil {
		return nil, fmt.Errorf("get RC file path: %w", err)
	}
	if err := checkRCPath(rcPath); err != nil {
		return nil, err
	}

	result := &SetupResult{
		Shell:             shell,
		RCFile:            rcPath,
		ActivationCommand: activationCmd,
	}

	present, err := HasActivationLine(rcPath)
	if err != nil {
		return nil, fmt.Errorf("check activation line: %w", err)
	}
	if present {
		result.AlreadyPresent = true
		return result, nil
	}
	if opts.DryRun {
		return result, nil
	}

	if opts.Backup {
		if exists, _ := fileExists(rcPath); exists {
			if result.BackupPath, err = BackupRCFile(rcPath); err != nil {
				return nil, fmt.Errorf("backup RC file: %w", err)
			}
		}
	}

	if err := AddActivationLine(rcPath, activationCmd); err != nil {
		return nil, fmt.Errorf("add activation line: %w", err)
	}
	result.Added = true
	return result, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
