// Package testutil provides helpers for running jvman tests in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the directories created by SetupTestEnv.
type Env struct {
	Root      string // temp root, removed by the testing framework
	Home      string // $HOME
	JvmanHome string // $JVMAN_HOME
	Downloads string // $HOME/Downloads
}

// SetupTestEnv points HOME and JVMAN_HOME at fresh temp directories so tests
// never touch the user's real config, downloads or installed JDKs.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	root := t.TempDir()
	env := Env{
		Root:      root,
		Home:      filepath.Join(root, "home"),
		JvmanHome: filepath.Join(root, "home", ".jvman"),
		Downloads: filepath.Join(root, "home", "Downloads"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home) // os.UserHomeDir on Windows
	t.Setenv("JVMAN_HOME", env.JvmanHome)

	for _, dir := range []string{env.Home, env.JvmanHome, env.Downloads} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	return env
}

// WriteFile writes content under root, creating parent directories.
func WriteFile(t *testing.T, root, name, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
