// Package fault defines the failure taxonomy shared by the download and
// extraction workers. Workers never panic or print on failure; they attach a
// *Error to their terminal event instead.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies why a run did not succeed.
type Kind int

const (
	// Unknown is returned by KindOf for errors that are not *Error.
	Unknown Kind = iota
	// MissingMetadata means a required response header was absent.
	MissingMetadata
	// TransportFailure means the request or a body read failed.
	TransportFailure
	// WriteFailure means a local write or the atomic replace failed.
	WriteFailure
	// ExtractionBackendFailure means the archive could not be unpacked.
	ExtractionBackendFailure
	// MergeFailure means moving staged entries into place failed.
	// The destination may be partially updated.
	MergeFailure
	// Cancelled means the caller stopped the run.
	Cancelled
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case MissingMetadata:
		return "MissingMetadata"
	case TransportFailure:
		return "TransportFailure"
	case WriteFailure:
		return "WriteFailure"
	case ExtractionBackendFailure:
		return "ExtractionBackendFailure"
	case MergeFailure:
		return "MergeFailure"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ErrCancelled is the cause recorded when a run is stopped.
var ErrCancelled = errors.New("stopped by caller")

// Error is a classified run failure.
type Error struct {
	Kind Kind
	Op   string // step that failed, e.g. "read chunk"
	Path string // file involved, if any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf returns an *Error of the given kind with a formatted cause.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// WithPath returns e with Path set.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
