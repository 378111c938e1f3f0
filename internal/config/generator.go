package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Generator renders a Config as a Lua config script.
type Generator struct {
	indent string
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{indent: "  ", now: time.Now}
}

// Generate returns Lua source that parses back to cfg. Paths under the
// user's home directory are written with a "~/" prefix.
func (g *Generator) Generate(cfg *Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config is required")
	}

	var buf bytes.Buffer
	buf.WriteString("-- jvman configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().Format(time.RFC3339))
	buf.WriteString("\n\n")

	buf.WriteString(luaGlobalJvman + " = {\n")
	g.field(&buf, 1, luaFieldDownloadDir, g.quoteLuaString(collapseHome(cfg.DownloadDir)))
	g.field(&buf, 1, luaFieldInstallDir, g.quoteLuaString(collapseHome(cfg.InstallDir)))
	g.field(&buf, 1, luaFieldChunkSize, fmt.Sprintf("%d", cfg.ChunkSize))
	g.field(&buf, 1, luaFieldInMemory, fmt.Sprintf("%t", cfg.InMemory))
	g.field(&buf, 1, luaFieldUserAgent, g.quoteLuaString(cfg.UserAgent))
	g.field(&buf, 1, luaFieldLogLevel, g.quoteLuaString(cfg.LogLevel))

	buf.WriteString("\n")
	buf.WriteString(g.indent + luaFieldCatalog + " = {\n")
	if cfg.Catalog.BaseURL != "" {
		g.field(&buf, 2, luaFieldBaseURL, g.quoteLuaString(cfg.Catalog.BaseURL))
	}
	if cfg.Catalog.FeatureVersion != 0 {
		g.field(&buf, 2, luaFieldFeature, fmt.Sprintf("%d", cfg.Catalog.FeatureVersion))
	} else {
		buf.WriteString(strings.Repeat(g.indent, 2) + "-- " + luaFieldFeature + " = 21, -- default: latest LTS\n")
	}
	g.field(&buf, 2, luaFieldReleaseType, g.quoteLuaString(cfg.Catalog.ReleaseType))
	g.field(&buf, 2, luaFieldImageType, g.quoteLuaString(cfg.Catalog.ImageType))
	g.field(&buf, 2, luaFieldJVMImpl, g.quoteLuaString(cfg.Catalog.JVMImpl))
	g.field(&buf, 2, luaFieldHeapSize, g.quoteLuaString(cfg.Catalog.HeapSize))
	g.field(&buf, 2, luaFieldVendor, g.quoteLuaString(cfg.Catalog.Vendor))
	buf.WriteString(g.indent + "},\n")

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (g *Generator) field(buf *bytes.Buffer, depth int, name, value string) {
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}

func collapseHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}

// WriteDefault writes the default config to Path unless a file already
// exists there. It returns the path written.
func WriteDefault() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	cfg, err := Default()
	if err != nil {
		return "", err
	}
	src, err := NewGenerator().Generate(cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return path, fmt.Errorf("config already exists: %s", path)
		}
		return "", fmt.Errorf("create config: %w", err)
	}
	if _, err := f.WriteString(src); err != nil {
		f.Close()
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, f.Close()
}
