package config

import (
	"path/filepath"
	"testing"

	"github.com/ZebulonRouseFrantzich/jvman/internal/download"
	"github.com/ZebulonRouseFrantzich/jvman/internal/testutil"
)

func TestHomeDir(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	got, err := HomeDir()
	if err != nil {
		t.Fatalf("HomeDir() error = %v", err)
	}
	if got != env.JvmanHome {
		t.Errorf("HomeDir() = %s, want %s", got, env.JvmanHome)
	}

	t.Setenv(EnvHome, "")
	got, err = HomeDir()
	if err != nil {
		t.Fatalf("HomeDir() error = %v", err)
	}
	if got != filepath.Join(env.Home, ".jvman") {
		t.Errorf("HomeDir() without override = %s", got)
	}
}

func TestDownloadOptions(t *testing.T) {
	testutil.SetupTestEnv(t)

	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	opts := cfg.DownloadOptions()
	if opts.Sink != download.SinkFile || opts.ChunkSize != download.DefaultChunkSize {
		t.Errorf("default options = %+v", opts)
	}

	cfg.InMemory = true
	if cfg.DownloadOptions().Sink != download.SinkMemory {
		t.Error("in_memory should select the memory sink")
	}
}

func TestCatalogConfigQuery(t *testing.T) {
	c := CatalogConfig{FeatureVersion: 17, ImageType: "jre", Vendor: "eclipse"}
	q := c.Query()
	if q.FeatureVersion != 17 || q.ImageType != "jre" || q.OS != "" || q.Arch != "" {
		t.Errorf("Query() = %+v", q)
	}
}

func TestExpandHome(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	tests := map[string]string{
		"~":         env.Home,
		"~/jdks":    filepath.Join(env.Home, "jdks"),
		"/abs/path": "/abs/path",
		"~user/x":   "~user/x",
	}
	for in, want := range tests {
		got, err := expandHome(in)
		if err != nil {
			t.Fatalf("expandHome(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("expandHome(%q) = %s, want %s", in, got, want)
		}
	}
}
