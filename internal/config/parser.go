package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
	"github.com/ZebulonRouseFrantzich/jvman/internal/platform"
)

// Parser evaluates config scripts with platform information injected.
type Parser struct {
	detector platform.Detector
	log      logging.Logger
}

// NewParser creates a parser. A nil detector leaves "platform" undefined in
// scripts.
func NewParser(detector platform.Detector, log logging.Logger) *Parser {
	return &Parser{detector: detector, log: logging.OrNop(log)}
}

// Load reads the config file from Path. A missing file yields Default.
func (p *Parser) Load(ctx context.Context) (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(ctx, path)
}

// ParseFile parses the config at path. A missing file yields Default.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		p.log.Debug("no config file, using defaults", "path", path)
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	p.log.Debug("loading config", "path", path)
	return p.ParseString(ctx, string(data))
}

// ParseString parses config source held in memory.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	L := newSandboxedVM()
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: err.Error()}
		}
		return nil, &ParseError{Message: "Lua error", Detail: err.Error()}
	}

	if err := applyTable(L, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{Message: "config validation failed", Detail: err.Error()}
	}
	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// applyTable copies fields of the global "jvman" table onto cfg.
func applyTable(L *lua.LState, cfg *Config) error {
	global := L.GetGlobal(luaGlobalJvman)
	table, ok := global.(*lua.LTable)
	if !ok {
		return &ParseError{
			Message: fmt.Sprintf("missing or invalid '%s' table", luaGlobalJvman),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	r := fieldReader{table: table}
	if v, ok := r.path(luaFieldDownloadDir); ok {
		cfg.DownloadDir = v
	}
	if v, ok := r.path(luaFieldInstallDir); ok {
		cfg.InstallDir = v
	}
	if v, ok := r.integer(luaFieldChunkSize); ok {
		cfg.ChunkSize = v
	}
	if v, ok := r.boolean(luaFieldInMemory); ok {
		cfg.InMemory = v
	}
	if v, ok := r.str(luaFieldUserAgent); ok {
		cfg.UserAgent = v
	}
	if v, ok := r.str(luaFieldLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}

	switch cat := table.RawGetString(luaFieldCatalog).(type) {
	case *lua.LTable:
		c := fieldReader{table: cat, prefix: luaFieldCatalog + "."}
		if v, ok := c.str(luaFieldBaseURL); ok {
			cfg.Catalog.BaseURL = v
		}
		if v, ok := c.integer(luaFieldFeature); ok {
			cfg.Catalog.FeatureVersion = v
		}
		if v, ok := c.str(luaFieldReleaseType); ok {
			cfg.Catalog.ReleaseType = v
		}
		if v, ok := c.str(luaFieldImageType); ok {
			cfg.Catalog.ImageType = v
		}
		if v, ok := c.str(luaFieldJVMImpl); ok {
			cfg.Catalog.JVMImpl = v
		}
		if v, ok := c.str(luaFieldHeapSize); ok {
			cfg.Catalog.HeapSize = v
		}
		if v, ok := c.str(luaFieldVendor); ok {
			cfg.Catalog.Vendor = v
		}
		if c.err != nil {
			return c.err
		}
	case *lua.LNilType:
	default:
		r.fail(luaFieldCatalog, "table", cat)
	}

	return r.err
}

// fieldReader reads typed fields and records the first type mismatch. Nil
// fields report ok=false so defaults survive platform.when(...) returning nil.
type fieldReader struct {
	table  *lua.LTable
	prefix string
	err    error
}

func (r *fieldReader) fail(name, want string, got lua.LValue) {
	if r.err == nil {
		r.err = &ParseError{
			Message: "invalid field type",
			Detail:  fmt.Sprintf("%s%s: expected %s, got %s", r.prefix, name, want, got.Type()),
		}
	}
}

func (r *fieldReader) str(name string) (string, bool) {
	v := r.table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return "", false
	case lua.LTString:
		return v.String(), true
	}
	r.fail(name, "string", v)
	return "", false
}

func (r *fieldReader) path(name string) (string, bool) {
	s, ok := r.str(name)
	if !ok {
		return "", false
	}
	expanded, err := expandHome(s)
	if err != nil {
		if r.err == nil {
			r.err = &ParseError{Message: "invalid path", Detail: fmt.Sprintf("%s%s: %v", r.prefix, name, err)}
		}
		return "", false
	}
	return expanded, true
}

func (r *fieldReader) integer(name string) (int, bool) {
	v := r.table.RawGetString(name)
	switch n := v.(type) {
	case *lua.LNilType:
		return 0, false
	case lua.LNumber:
		if float64(n) != float64(int(n)) {
			r.fail(name, "integer", v)
			return 0, false
		}
		return int(n), true
	}
	r.fail(name, "number", v)
	return 0, false
}

func (r *fieldReader) boolean(name string) (bool, bool) {
	v := r.table.RawGetString(name)
	switch b := v.(type) {
	case *lua.LNilType:
		return false, false
	case lua.LBool:
		return bool(b), true
	}
	r.fail(name, "boolean", v)
	return false, false
}

// FormatError formats a ParseError for user display. In verbose mode the raw
// Lua error is shown in full.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
