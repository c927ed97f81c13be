// Package files persists metadata of uploaded files in the shared_files table.
// The file bytes themselves live in the blob store.
package files

import (
	"context"

	"github.com/dmitrijs2005/lanshare/internal/models"
)

// Repository describes the storage operations for file entries.
type Repository interface {
	// Insert stores entry and returns the new id.
	Insert(ctx context.Context, entry *models.FileEntry) (int64, error)

	// GetAll returns every file entry, newest first.
	GetAll(ctx context.Context) ([]*models.FileEntry, error)

	// GetByID returns the entry or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.FileEntry, error)

	// DeleteByID removes the entry. A missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}
