package download

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
)

var (
	// ErrMissingLength is the cause when Content-Length is absent.
	ErrMissingLength = errors.New("response has no Content-Length")
	// ErrMissingFilename is the cause when no filename can be derived.
	ErrMissingFilename = errors.New("response has no usable Content-Disposition filename")
)

// filenamePattern matches the filename= parameter, quoted or not.
var filenamePattern = regexp.MustCompile(`(?i)filename\s*=\s*"?([^";]+)"?`)

// parseMetadata extracts the total size and filename from response headers.
func parseMetadata(resp *http.Response) (int64, string, error) {
	if resp.ContentLength < 0 {
		return 0, "", fault.New(fault.MissingMetadata, "read Content-Length", ErrMissingLength)
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		return 0, "", fault.New(fault.MissingMetadata, "read Content-Disposition", ErrMissingFilename)
	}

	return resp.ContentLength, name, nil
}

// filenameFromDisposition returns the base name carried by a
// Content-Disposition header, or "" when there is none.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}

	var raw string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		raw = params["filename"]
	}
	if raw == "" {
		if m := filenamePattern.FindStringSubmatch(header); m != nil {
			raw = m[1]
		}
	}

	return sanitizeFilename(raw)
}

// sanitizeFilename strips directories so the name cannot escape the
// destination directory.
func sanitizeFilename(raw string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, `\`, "/"))
	if raw == "" {
		return ""
	}

	name := path.Base(raw)
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}
