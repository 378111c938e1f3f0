package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("hidden message")
	l.Warn("visible message", "path", "/tmp/jdk")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "/tmp/jdk") {
		t.Errorf("warn line missing from output: %q", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if ValidLevel("loud") {
		t.Error("ValidLevel accepted unknown level")
	}
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false", lvl)
		}
	}
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	With(l, "run", "abc123").Debug("chunk written")

	if !strings.Contains(buf.String(), "abc123") {
		t.Errorf("expected run field in output: %q", buf.String())
	}

	// Non-charm loggers pass through.
	if With(nil) == nil {
		t.Error("With(nil) returned nil")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil for empty context")
	}

	l := Nop()
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext did not return stored logger")
	}
}
