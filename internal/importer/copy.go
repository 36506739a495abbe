// internal/importer/copy.go
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a file from src to dst, keeping the source modification time.
// Creates destination directory if it doesn't exist.
// Returns ErrDestinationExists if dst already exists.
func CopyFile(src, dst string) (int64, error) {
	if _, err := os.Stat(dst); err == nil {
		return 0, ErrDestinationExists
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %w", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %v", ErrCopyFailed, err)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if errors.Is(err, os.ErrExist) {
		return 0, ErrDestinationExists
	}
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}

	size, err := io.Copy(dstFile, srcFile)
	if err == nil {
		err = dstFile.Sync()
	}
	if cerr := dstFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Clean up partial file on error
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return size, nil
}

// MoveFile copies src to dst and removes src once the copy has the source's
// size. On a size mismatch both files are kept and ErrSizeMismatch is returned.
func MoveFile(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %w", ErrCopyFailed, err)
	}

	size, err := CopyFile(src, dst)
	if err != nil {
		return 0, err
	}

	if size != info.Size() {
		return size, fmt.Errorf("%w: %s has %d bytes, %s has %d", ErrSizeMismatch, src, info.Size(), dst, size)
	}
	if err := os.Remove(src); err != nil {
		return size, fmt.Errorf("remove source: %w", err)
	}
	return size, nil
}

// RenameFile renames src to dst within a filesystem, refusing to replace an
// existing destination. A case-only change of the same file is allowed.
func RenameFile(src, dst string) error {
	if dstInfo, err := os.Stat(dst); err == nil {
		srcInfo, serr := os.Stat(src)
		if serr != nil || !os.SameFile(srcInfo, dstInfo) {
			return ErrDestinationExists
		}
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
