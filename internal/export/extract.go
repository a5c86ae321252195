package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/spf13/afero"
)

// Extract unpacks the archive at source into dest, creating it if needed.
// Entries that would land outside dest are rejected.
func (l *Loader) Extract(source, dest string) (int, error) {
	info, err := l.fs.Stat(source)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeExportReadError,
			fmt.Sprintf("cannot open export %s", source))
	}

	f, err := l.fs.Open(source)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeExportReadError,
			fmt.Sprintf("cannot open export %s", source))
	}
	defer f.Close()

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeMalformedInput,
			fmt.Sprintf("%s is not a zip archive", source))
	}

	if err := l.fs.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	written := 0
	for _, entry := range zr.File {
		target, err := entryPath(dest, entry.Name)
		if err != nil {
			return written, apperrors.Wrap(err, apperrors.CodeMalformedInput, source)
		}

		if entry.FileInfo().IsDir() {
			if err := l.fs.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("failed to create %s: %w", target, err)
			}
			continue
		}

		if err := l.extractFile(entry, target); err != nil {
			return written, err
		}
		written++
	}

	l.logger.Info("Export extracted", "source", source, "dest", dest, "files", written)
	return written, nil
}

func (l *Loader) extractFile(entry *zip.File, target string) error {
	if err := l.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := l.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return dst.Close()
}

func entryPath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes extraction directory", name)
	}
	return target, nil
}

// IsArchive reports whether source is a regular file rather than a directory.
func IsArchive(fs afero.Fs, source string) bool {
	info, err := fs.Stat(source)
	return err == nil && !info.IsDir()
}
