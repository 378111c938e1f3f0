// Package download implements the streaming download worker.
//
// A Worker performs one HTTP GET at a time. The body is read in fixed-size
// chunks and written to a sidecar file (the final path plus ".part"). When the
// body has been fully written the sidecar is flushed, closed and renamed over
// the final path, so a reader never sees a half-written final file.
//
// # Events
//
// Each run publishes, in order:
//
//	BeginRequest
//	EndRequest
//	FilenameFound(name)     from Content-Disposition filename=
//	FilesizeFound(size)     from Content-Length
//	BeginDownload(path)
//	BytesChanged(n), ChunkWritten(i)   once per non-empty chunk
//	EndDownload(path)       terminal, exactly once
//
// A run that fails before the final path is known still ends with EndDownload
// (with an empty path). Failures are attached to the terminal event as a
// *fault.Error; nothing is returned to the caller of Start.
//
// # Stopping
//
// Stop publishes the terminal event immediately with Succeeded=false and
// cancels the request context. net/http aborts a body read blocked on a
// canceled request, so in practice the run exits promptly. The guarantee
// callers may rely on is narrower: after Stop no further progress is
// reported. The sidecar is left on disk with whatever was written so far.
//
// # Sinks
//
// SinkFile streams chunks to the sidecar. SinkMemory buffers the whole body
// and writes the sidecar only at commit; both finish with the same rename.
package download
