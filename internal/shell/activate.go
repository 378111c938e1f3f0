package shell

import (
	"fmt"
	"strings"
)

// ActivationCommand returns the line users add to their rc file.
func ActivationCommand(shell ShellType) (string, error) {
	switch shell {
	case ShellBash, ShellZsh:
		return fmt.Sprintf(`eval "$(jvman activate %s)"`, shell), nil
	case ShellFish:
		return "jvman activate fish | source", nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// EnvScript returns shell code that points JAVA_HOME at javaHome and puts
// its bin directory first on PATH.
func EnvScript(shell ShellType, javaHome string) (string, error) {
	if javaHome == "" {
		return "", fmt.Errorf("java home is required")
	}

	switch shell {
	case ShellBash, ShellZsh:
		return fmt.Sprintf("export JAVA_HOME=%s\nexport PATH=\"$JAVA_HOME/bin:$PATH\"\n", quotePOSIX(javaHome)), nil
	case ShellFish:
		return fmt.Sprintf("set -gx JAVA_HOME %s\nset -gx PATH $JAVA_HOME/bin $PATH\n", quoteFish(javaHome)), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// quotePOSIX single-quotes s for sh-compatible shells.
func quotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteFish single-quotes s for fish, where \ and ' are the only escapes.
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}
