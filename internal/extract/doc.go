// Package extract implements the archive extraction worker.
//
// A run unpacks an archive into a private staging directory created with
// os.MkdirTemp, then merges the staged top-level entries into the destination
// directory. Merging is an overwrite by name at the top level only: when the
// destination already holds an entry with the same name, that whole entry is
// removed before the staged one is moved in. Nested trees are never merged.
//
// # Events
//
//	BeginExtract(dest)
//	EndExtract(dest)    terminal, exactly once
//
// Extraction is a single backend call with no intermediate progress.
//
// # Failure modes
//
// A backend failure (corrupt or unsupported archive) aborts before the merge
// and leaves the destination untouched. A filesystem error during the merge
// leaves the destination partially updated: entries merged before the error
// stay in place. Callers that need all-or-nothing installs must provide it
// themselves.
//
// # Formats
//
// The format is sniffed from the archive contents (not its name) with
// mimetype. tar, tar.gz, tar.bz2 and zip are handled in-process; 7z and xz
// are handled by external tools when they are on PATH.
package extract
