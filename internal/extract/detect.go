package extract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Backend unpacks one archive format.
type Backend interface {
	// Extract unpacks archivePath into destDir, which already exists.
	Extract(ctx context.Context, archivePath, destDir string) error

	// Name returns the human-readable format name (e.g. "tar.gz").
	Name() string
}

// ErrUnsupportedFormat is returned when no backend handles an archive.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// MIME types recognized by the default detector.
const (
	MIMETar   = "application/x-tar"
	MIMEGzip  = "application/gzip"
	MIMEBzip2 = "application/x-bzip2"
	MIMEZip   = "application/zip"
	MIME7z    = "application/x-7z-compressed"
	MIMEXz    = "application/x-xz"
)

type registration struct {
	mime    string
	backend Backend
}

// Detector picks a Backend from an archive's contents.
type Detector struct {
	backends []registration
}

// NewDetector returns a detector with the built-in backends and any CLI
// backends whose tools are installed.
func NewDetector() *Detector {
	d := &Detector{}

	d.Register(MIMETar, newTarBackend("tar", plainReader))
	d.Register(MIMEGzip, newTarBackend("tar.gz", gzipReader))
	d.Register(MIMEBzip2, newTarBackend("tar.bz2", bzip2Reader))
	d.Register(MIMEZip, &zipBackend{})

	// Only add CLI backends when the binary is available
	if b, err := newCLI7z(); err == nil {
		d.Register(MIME7z, b)
	}
	if b, err := newCLITarXz(); err == nil {
		d.Register(MIMEXz, b)
	}

	return d
}

// Register adds or replaces the backend for a MIME type.
func (d *Detector) Register(mime string, b Backend) {
	for i, r := range d.backends {
		if r.mime == mime {
			d.backends[i].backend = b
			return
		}
	}
	d.backends = append(d.backends, registration{mime: mime, backend: b})
}

// Supported returns the names of the registered backends.
func (d *Detector) Supported() []string {
	names := make([]string, len(d.backends))
	for i, r := range d.backends {
		names[i] = r.backend.Name()
	}
	return names
}

// Detect sniffs archivePath and returns the matching backend.
func (d *Detector) Detect(archivePath string) (Backend, error) {
	mt, err := mimetype.DetectFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("detect archive format: %w", err)
	}

	// Walk up the MIME tree so zip-based formats (jar, ...) map to zip
	for m := mt; m != nil; m = m.Parent() {
		for _, r := range d.backends {
			if m.Is(r.mime) {
				return r.backend, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, mt.String(), strings.Join(d.Supported(), ", "))
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath
