// Package logging provides the structured logger used across jvman.
//
// Components accept the Logger interface and default to a no-op logger, so
// library code stays silent unless the caller wires a real one in. The CLI
// builds a charmbracelet/log backed logger with New.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger provides structured logging with key-value pairs.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &noopLogger{}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// charmLogger adapts *log.Logger to Logger.
type charmLogger struct {
	l *log.Logger
}

func (c *charmLogger) Debug(msg string, kv ...interface{}) { c.l.Debug(msg, kv...) }
func (c *charmLogger) Info(msg string, kv ...interface{})  { c.l.Info(msg, kv...) }
func (c *charmLogger) Warn(msg string, kv ...interface{})  { c.l.Warn(msg, kv...) }
func (c *charmLogger) Error(msg string, kv ...interface{}) { c.l.Error(msg, kv...) }

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to every line.
	Prefix string
	// Timestamps enables time stamps on each line.
	Timestamps bool
}

// New builds a charmbracelet/log backed Logger.
func New(opts Options) (Logger, error) {
	l, err := newCharm(opts)
	if err != nil {
		return nil, err
	}
	return &charmLogger{l: l}, nil
}

func newCharm(opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// ValidLevel reports whether s names a level New accepts.
func ValidLevel(s string) bool {
	if s == "" {
		return true
	}
	_, err := log.ParseLevel(s)
	return err == nil
}

// With returns a logger that adds the given key-value pairs to every entry.
// Loggers not created by New are returned unchanged.
func With(l Logger, keysAndValues ...interface{}) Logger {
	if c, ok := l.(*charmLogger); ok {
		return &charmLogger{l: c.l.With(keysAndValues...)}
	}
	return OrNop(l)
}

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return Nop()
}
