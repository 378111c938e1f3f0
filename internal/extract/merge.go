package extract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
)

// merge moves every top-level entry of stagingDir into destDir, removing a
// same-named destination entry first. stop is polled between entries.
// It returns the names merged so far, even on error.
func merge(stagingDir, destDir string, stop func() bool, log logging.Logger) ([]string, error) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return nil, fault.New(fault.MergeFailure, "list staging", err).WithPath(stagingDir)
	}

	merged := make([]string, 0, len(entries))
	for _, entry := range entries {
		if stop() {
			return merged, fault.New(fault.Cancelled, "merge", fault.ErrCancelled)
		}

		name := entry.Name()
		staged := filepath.Join(stagingDir, name)
		target := filepath.Join(destDir, name)

		if _, err := os.Lstat(target); err == nil {
			log.Debug("replacing existing entry", "path", target)
			if err := os.RemoveAll(target); err != nil {
				return merged, fault.New(fault.MergeFailure, "remove existing entry", err).WithPath(target)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return merged, fault.New(fault.MergeFailure, "stat existing entry", err).WithPath(target)
		}

		if err := moveEntry(staged, target); err != nil {
			return merged, fault.New(fault.MergeFailure, "move entry", err).WithPath(target)
		}
		merged = append(merged, name)
	}

	return merged, nil
}

// moveEntry renames src to dst, copying across filesystems when needed.
func moveEntry(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("copy across devices: %w", err)
	}
	return os.RemoveAll(src)
}

// copyTree copies a file, symlink or directory tree from src to dst.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, dirMode(info.Mode()))
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode())
		default:
			return nil
		}
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
