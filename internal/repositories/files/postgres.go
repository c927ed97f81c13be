package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/dbx"
	"github.com/dmitrijs2005/lanshare/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert adds a row and returns the generated id.
func (r *PostgresRepository) Insert(ctx context.Context, e *models.FileEntry) (int64, error) {
	query := `INSERT INTO shared_files (filename, original_name, file_size, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, e.StoredName, e.OriginalName, e.SizeBytes, e.CreatedAt.UTC()).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: insert file: %w", common.ErrorStorage, err)
	}
	return id, nil
}

// GetAll returns every row ordered by created_at then id, both descending.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.FileEntry, error) {
	query := `SELECT id, filename, original_name, file_size, created_at FROM shared_files ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select files: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// GetByID returns the row or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FileEntry, error) {
	query := `SELECT id, filename, original_name, file_size, created_at FROM shared_files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, query, id), id)
}

// DeleteByID removes the row with the given id, if any.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shared_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete file %d: %w", common.ErrorStorage, id, err)
	}
	return nil
}

// Count returns the number of rows.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shared_files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count files: %w", common.ErrorStorage, err)
	}
	return n, nil
}
