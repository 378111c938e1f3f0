package extract

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// decompressor wraps the raw archive stream.
type decompressor func(r io.Reader) (io.ReadCloser, error)

func plainReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func gzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func bzip2Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

// tarBackend extracts tar streams, optionally compressed.
type tarBackend struct {
	name       string
	decompress decompressor
}

func newTarBackend(name string, d decompressor) *tarBackend {
	return &tarBackend{name: name, decompress: d}
}

// Name returns the format name.
func (b *tarBackend) Name() string {
	return b.name
}

// Extract unpacks the archive into destDir.
func (b *tarBackend) Extract(ctx context.Context, archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	stream, err := b.decompress(archiveFile)
	if err != nil {
		return fmt.Errorf("create %s reader: %w", b.name, err)
	}
	defer stream.Close()

	dest, err := openStaging(destDir)
	if err != nil {
		return err
	}
	defer dest.Close()

	tarReader := tar.NewReader(stream)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target, err := dest.entry(header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := dest.mkdir(target, header.FileInfo().Mode()); err != nil {
				return err
			}

		case tar.TypeReg:
			if err := dest.writeFile(target, tarReader, header.FileInfo().Mode()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := dest.symlink(target, header.Linkname); err != nil {
				return err
			}

		case tar.TypeLink:
			source, err := dest.entry(header.Linkname)
			if err != nil {
				return err
			}
			if err := dest.link(source, target); err != nil {
				return err
			}

		default:
			// Skip other types (char devices, block devices, fifos, ...)
			continue
		}
	}
}

// safeJoin joins name onto root and rejects names that escape root.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, name)
	cleanRoot := filepath.Clean(root)
	if target != cleanRoot && !strings.HasPrefix(target, cleanRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

// staging writes archive entries below one directory. Every operation goes
// through an os.Root, so a symlink unpacked earlier cannot redirect a later
// entry outside the directory.
type staging struct {
	root *os.Root
	dir  string
}

func openStaging(dir string) (*staging, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open staging dir: %w", err)
	}
	return &staging{root: root, dir: dir}, nil
}

func (s *staging) Close() error {
	return s.root.Close()
}

// entry validates an archive entry name and returns it relative to the
// staging dir.
func (s *staging) entry(name string) (string, error) {
	target, err := safeJoin(s.dir, name)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.Clean(s.dir), target)
	if err != nil {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return rel, nil
}

func (s *staging) mkdir(name string, mode os.FileMode) error {
	if name == "." {
		return nil
	}
	if err := s.root.MkdirAll(name, dirMode(mode)); err != nil {
		return fmt.Errorf("create directory %s: %w", name, err)
	}
	return nil
}

func (s *staging) mkparent(name string) error {
	parent := filepath.Dir(name)
	if parent == "." {
		return nil
	}
	if err := s.root.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", name, err)
	}
	return nil
}

// writeFile creates name with the given mode and copies r into it.
func (s *staging) writeFile(name string, r io.Reader, mode os.FileMode) error {
	if err := s.mkparent(name); err != nil {
		return err
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}

	outFile, err := s.root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create file %s: %w", name, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", name, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", name, err)
	}
	return nil
}

// symlink replaces name with a symlink to linkname. The link target is
// stored as-is; following it later is confined by the root.
func (s *staging) symlink(name, linkname string) error {
	if err := s.mkparent(name); err != nil {
		return err
	}
	_ = s.root.Remove(name)
	if err := s.root.Symlink(linkname, name); err != nil {
		return fmt.Errorf("create symlink %s: %w", name, err)
	}
	return nil
}

// link replaces name with a hard link to source.
func (s *staging) link(source, name string) error {
	if err := s.mkparent(name); err != nil {
		return err
	}
	_ = s.root.Remove(name)
	if err := s.root.Link(source, name); err != nil {
		return fmt.Errorf("create hard link %s: %w", name, err)
	}
	return nil
}

// dirMode keeps directories traversable by the owner.
func dirMode(mode os.FileMode) os.FileMode {
	return mode.Perm() | 0700
}
