// Package blobstore keeps the bytes of shared files, addressed by stored name.
// Two backends exist: a directory on local disk and an S3-compatible bucket.
package blobstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/config"
)

// Store is a flat name -> bytes namespace.
type Store interface {
	// EnsureReady creates the directory or bucket when missing.
	EnsureReady(ctx context.Context) error
	// Write stores data under name, replacing any previous content.
	Write(ctx context.Context, name string, data []byte) error
	// Read returns the bytes under name or common.ErrorNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Delete removes name. Deleting a missing name succeeds.
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects names that could escape the store namespace.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: invalid blob name %q", common.ErrorValidation, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: blob name %q contains a path separator", common.ErrorValidation, name)
	}
	return nil
}

// FromConfig builds the backend selected by cfg.BlobBackend and makes sure it
// is ready to accept writes.
func FromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	var store Store

	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = NewS3Store(client, cfg.S3Bucket)
	default:
		store = NewLocalStore(cfg.BlobDir)
	}

	if err := store.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
