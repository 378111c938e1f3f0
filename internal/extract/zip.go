package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// zipBackend extracts zip archives (and zip-based formats such as jar).
type zipBackend struct{}

// Name returns the format name.
func (b *zipBackend) Name() string {
	return "zip"
}

// Extract unpacks the archive into destDir.
func (b *zipBackend) Extract(ctx context.Context, archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	dest, err := openStaging(destDir)
	if err != nil {
		return err
	}
	defer dest.Close()

	for _, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := dest.entry(f.Name)
		if err != nil {
			return err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
			if err := dest.mkdir(target, mode); err != nil {
				return err
			}

		case mode&os.ModeSymlink != 0:
			linkname, err := readZipEntry(f)
			if err != nil {
				return err
			}
			if err := dest.symlink(target, linkname); err != nil {
				return err
			}

		default:
			if err := extractZipFile(dest, f, target); err != nil {
				return err
			}
		}
	}

	return nil
}

func extractZipFile(dest *staging, f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	return dest.writeFile(target, rc, f.Mode())
}

func readZipEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read zip entry %s: %w", f.Name, err)
	}
	return string(data), nil
}
