package events

import (
	"fmt"
	"time"
)

// Type identifies the kind of an Event.
type Type int

const (
	// BeginRequest is emitted before the HTTP request is issued.
	BeginRequest Type = iota
	// EndRequest is emitted once response headers are received.
	EndRequest
	// FilenameFound carries the filename derived from Content-Disposition.
	FilenameFound
	// FilesizeFound carries the total size from Content-Length.
	FilesizeFound
	// BeginDownload carries the final path once the sidecar is known.
	BeginDownload
	// BytesChanged carries the running count of bytes written.
	BytesChanged
	// ChunkWritten carries the index of the chunk just written.
	ChunkWritten
	// EndDownload is the terminal event of a download run.
	EndDownload
	// BeginExtract carries the destination directory of an extraction.
	BeginExtract
	// EndExtract is the terminal event of an extraction run.
	EndExtract
)

var typeNames = [...]string{
	BeginRequest:  "BeginRequest",
	EndRequest:    "EndRequest",
	FilenameFound: "FilenameFound",
	FilesizeFound: "FilesizeFound",
	BeginDownload: "BeginDownload",
	BytesChanged:  "BytesChanged",
	ChunkWritten:  "ChunkWritten",
	EndDownload:   "EndDownload",
	BeginExtract:  "BeginExtract",
	EndExtract:    "EndExtract",
}

// String returns the event name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Terminal reports whether t ends a run.
func (t Type) Terminal() bool {
	return t == EndDownload || t == EndExtract
}

// Event is a single notification from a worker.
//
// Only the fields relevant to Type are set. Events never share memory with
// the worker that produced them.
type Event struct {
	Type  Type
	RunID string
	Time  time.Time

	Path  string // BeginDownload, EndDownload, BeginExtract, EndExtract
	Name  string // FilenameFound
	Bytes int64  // FilesizeFound, BytesChanged
	Chunk int    // ChunkWritten

	// Terminal events only.
	Succeeded bool
	Err       error
}

// String returns a compact description, mainly for logs and test failures.
func (e Event) String() string {
	switch e.Type {
	case FilenameFound:
		return fmt.Sprintf("%s(%s)", e.Type, e.Name)
	case FilesizeFound, BytesChanged:
		return fmt.Sprintf("%s(%d)", e.Type, e.Bytes)
	case ChunkWritten:
		return fmt.Sprintf("%s(%d)", e.Type, e.Chunk)
	case BeginDownload, BeginExtract:
		return fmt.Sprintf("%s(%s)", e.Type, e.Path)
	case EndDownload, EndExtract:
		if e.Err != nil {
			return fmt.Sprintf("%s(%s, succeeded=%t, err=%v)", e.Type, e.Path, e.Succeeded, e.Err)
		}
		return fmt.Sprintf("%s(%s, succeeded=%t)", e.Type, e.Path, e.Succeeded)
	default:
		return e.Type.String()
	}
}

// Handler receives events from a Bus.
type Handler func(Event)

// Publisher is the side of a Bus that workers depend on.
type Publisher interface {
	Publish(Event)
}
