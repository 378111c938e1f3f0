package download

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// sink holds downloaded bytes until the run commits or aborts.
type sink interface {
	io.Writer
	// Commit makes the data visible at finalPath atomically.
	Commit(finalPath string) error
	// Abort releases resources. A file sink leaves the sidecar on disk; a
	// memory sink discards its buffer and leaves nothing.
	Abort() error
}

func openSink(mode SinkMode, sidecarPath string) (sink, error) {
	switch mode {
	case SinkMemory:
		return &memorySink{sidecarPath: sidecarPath}, nil
	case SinkFile:
		f, err := os.OpenFile(sidecarPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("create sidecar: %w", err)
		}
		return &fileSink{file: f, buf: bufio.NewWriter(f), sidecarPath: sidecarPath}, nil
	default:
		return nil, fmt.Errorf("unknown sink mode: %d", mode)
	}
}

// fileSink streams into the sidecar file.
type fileSink struct {
	file        *os.File
	buf         *bufio.Writer
	sidecarPath string
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *fileSink) Commit(finalPath string) error {
	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush sidecar: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return fmt.Errorf("sync sidecar: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close sidecar: %w", err)
	}
	if err := os.Rename(s.sidecarPath, finalPath); err != nil {
		return fmt.Errorf("rename sidecar: %w", err)
	}
	return nil
}

func (s *fileSink) Abort() error {
	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flush sidecar: %w", flushErr)
	}
	return closeErr
}

// memorySink buffers the body and writes the sidecar at commit.
type memorySink struct {
	buf         bytes.Buffer
	sidecarPath string
}

func (s *memorySink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *memorySink) Commit(finalPath string) error {
	if err := os.WriteFile(s.sidecarPath, s.buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	if err := os.Rename(s.sidecarPath, finalPath); err != nil {
		return fmt.Errorf("rename sidecar: %w", err)
	}
	s.buf.Reset()
	return nil
}

func (s *memorySink) Abort() error {
	s.buf.Reset()
	return nil
}
