package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/filex"
	"github.com/google/uuid"
)

// LocalStore keeps blobs as regular files in one directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Dir returns the directory blobs are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) EnsureReady(_ context.Context) error {
	abs, err := filex.EnsureDir(s.dir)
	if err != nil {
		return fmt.Errorf("%w: blob dir: %w", common.ErrorStorage, err)
	}
	s.dir = abs
	return nil
}

// Write goes through a temp file in the same directory, fsync and rename, so
// a failed write never leaves a truncated blob under name.
func (s *LocalStore) Write(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	tmpPath := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("%w: create temp blob: %w", common.ErrorStorage, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write blob %s: %w", common.ErrorStorage, name, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync blob %s: %w", common.ErrorStorage, name, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close blob %s: %w", common.ErrorStorage, name, err)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename blob %s: %w", common.ErrorStorage, name, err)
	}

	return nil
}

func (s *LocalStore) Read(_ context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: blob %s", common.ErrorNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read blob %s: %w", common.ErrorStorage, name, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete blob %s: %w", common.ErrorStorage, name, err)
	}
	return nil
}
