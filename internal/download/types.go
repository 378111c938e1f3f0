package download

import (
	"net/http"

	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
)

const (
	// DefaultChunkSize is the number of bytes read per chunk.
	DefaultChunkSize = 1024
	// PartSuffix is appended to the final path to form the sidecar path.
	PartSuffix = ".part"
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "jvman/1.0"
)

// SinkMode selects where downloaded bytes are held before commit.
type SinkMode int

const (
	// SinkFile streams chunks straight into the sidecar file.
	SinkFile SinkMode = iota
	// SinkMemory buffers the body in memory until commit.
	SinkMemory
)

// String returns the sink name.
func (m SinkMode) String() string {
	switch m {
	case SinkFile:
		return "file"
	case SinkMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Options configures a Worker.
type Options struct {
	// ChunkSize is the read size per chunk. Zero means DefaultChunkSize.
	ChunkSize int
	// Sink selects file or memory buffering.
	Sink SinkMode
	// Client performs the request. Nil means DefaultClient().
	Client *http.Client
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
	// Logger receives debug output. Nil means no logging.
	Logger logging.Logger
}

// Task describes one download.
type Task struct {
	URL            string
	DestinationDir string
}

// State is a snapshot of a run.
type State struct {
	RunID        string
	Filename     string
	TotalBytes   int64
	BytesWritten int64
	FinalPath    string
	SidecarPath  string
	Stopped      bool
	Succeeded    bool
	Err          error
}
