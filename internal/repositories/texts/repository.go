// Package texts persists shared text snippets in the shared_texts table.
package texts

import (
	"context"

	"github.com/dmitrijs2005/lanshare/internal/models"
)

// Repository describes the storage operations for text entries.
// Implementations are bound to a dbx.DBTX and exist for SQLite and PostgreSQL.
type Repository interface {
	// Insert stores entry and returns the new id. The title is always derived
	// from the content; entry.Title is ignored.
	Insert(ctx context.Context, entry *models.TextEntry) (int64, error)

	// GetAll returns every text entry, newest first.
	GetAll(ctx context.Context) ([]*models.TextEntry, error)

	// DeleteByID removes the entry. A missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}
