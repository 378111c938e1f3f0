package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/jvman/internal/catalog"
	"github.com/ZebulonRouseFrantzich/jvman/internal/download"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
)

// Config is the resolved jvman configuration.
type Config struct {
	// DownloadDir receives archives fetched by "download".
	DownloadDir string `json:"download_dir"`
	// InstallDir holds extracted JDKs and the install registry.
	InstallDir string `json:"install_dir"`
	// ChunkSize is the download read size in bytes.
	ChunkSize int `json:"chunk_size"`
	// InMemory buffers downloads in memory until commit.
	InMemory  bool   `json:"in_memory"`
	UserAgent string `json:"user_agent"`
	LogLevel  string `json:"log_level"`

	Catalog CatalogConfig `json:"catalog"`
}

// CatalogConfig holds default catalog query values.
type CatalogConfig struct {
	BaseURL string `json:"base_url,omitempty"`
	// FeatureVersion 0 means the most recent LTS release.
	FeatureVersion int    `json:"feature_version,omitempty"`
	ReleaseType    string `json:"release_type"`
	ImageType      string `json:"image_type"`
	JVMImpl        string `json:"jvm_impl"`
	HeapSize       string `json:"heap_size"`
	Vendor         string `json:"vendor"`
}

// Query converts the catalog defaults into a catalog.Query without OS or
// architecture.
func (c CatalogConfig) Query() catalog.Query {
	return catalog.Query{
		FeatureVersion: c.FeatureVersion,
		ReleaseType:    c.ReleaseType,
		ImageType:      c.ImageType,
		JVMImpl:        c.JVMImpl,
		HeapSize:       c.HeapSize,
		Vendor:         c.Vendor,
	}
}

// HomeDir returns $JVMAN_HOME, or ~/.jvman.
func HomeDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".jvman"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	jvmanHome, err := HomeDir()
	if err != nil {
		return nil, err
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	return &Config{
		DownloadDir: filepath.Join(userHome, "Downloads"),
		InstallDir:  filepath.Join(jvmanHome, "jdks"),
		ChunkSize:   download.DefaultChunkSize,
		UserAgent:   download.DefaultUserAgent,
		LogLevel:    "info",
		Catalog: CatalogConfig{
			ReleaseType: catalog.DefaultReleaseType,
			ImageType:   catalog.DefaultImageType,
			JVMImpl:     catalog.DefaultJVMImpl,
			HeapSize:    catalog.DefaultHeapSize,
			Vendor:      catalog.DefaultVendor,
		},
	}, nil
}

// DownloadOptions maps the config onto download worker options.
func (c *Config) DownloadOptions() download.Options {
	sink := download.SinkFile
	if c.InMemory {
		sink = download.SinkMemory
	}
	return download.Options{
		ChunkSize: c.ChunkSize,
		Sink:      sink,
		UserAgent: c.UserAgent,
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkSize > MaxChunkSize {
		return &ValidationError{
			Field:   luaFieldChunkSize,
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxChunkSize, c.ChunkSize),
		}
	}
	if !logging.ValidLevel(c.LogLevel) {
		return &ValidationError{
			Field:   luaFieldLogLevel,
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn or error)", c.LogLevel),
		}
	}

	for field, dir := range map[string]string{
		luaFieldDownloadDir: c.DownloadDir,
		luaFieldInstallDir:  c.InstallDir,
	} {
		if err := validateDir(dir); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}

	if c.Catalog.FeatureVersion != 0 && c.Catalog.FeatureVersion < 8 {
		return &ValidationError{
			Field:   luaFieldCatalog + "." + luaFieldFeature,
			Message: fmt.Sprintf("must be 8 or later, got %d", c.Catalog.FeatureVersion),
		}
	}
	if u := c.Catalog.BaseURL; u != "" && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		return &ValidationError{
			Field:   luaFieldCatalog + "." + luaFieldBaseURL,
			Message: fmt.Sprintf("must use https:// or http:// (got %q)", u),
		}
	}
	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

func validateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("path must be absolute or start with ~/: %s", dir)
	}
	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
