// Package storage provides Persister implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// Local stores images on the local filesystem. Relative keys resolve under
// the root directory, or the working directory when the root is empty.
// Absolute paths are always used as-is.
type Local struct {
	rootDir     string
	permissions os.FileMode
}

// NewLocal creates a Local storage adapter rooted at dir.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("local storage: mkdir %s: %w", dir, err)
		}
	}
	return &Local{rootDir: dir, permissions: perm}, nil
}

func (l *Local) absPath(key core.StorageKey) string {
	// Bucket maps to a subdirectory; Path is the filename.
	if l.rootDir == "" || (key.Bucket == "" && filepath.IsAbs(key.Path)) {
		return filepath.Clean(filepath.Join(key.Bucket, key.Path))
	}
	return filepath.Join(l.rootDir, key.Bucket, key.Path)
}

// Put writes data to the key's path, creating parent directories. The file
// is written to a temporary sibling first and renamed into place.
func (l *Local) Put(ctx context.Context, key core.StorageKey, data []byte) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put", err)
	}

	path := l.absPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.mkdir", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.open", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err = f.Write(data); err != nil {
		f.Close()
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.write", err)
	}
	if err = f.Close(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.close", err)
	}
	if err = os.Chmod(tmp, l.permissions); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.chmod", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.put.rename", err)
	}
	return nil
}

// Get opens the key's file for reading.
func (l *Local) Get(ctx context.Context, key core.StorageKey) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "local.get", err)
	}
	f, err := os.Open(l.absPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.New(apperrors.CategoryDecode, "local.get", fmt.Errorf("file not found: %s: %w", key.Path, err))
		}
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "local.get.open", err)
	}
	return f, nil
}
