package texts

import (
	"context"
	"database/sql"
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
func (r *PostgresRepository) Insert(ctx context.Context, e *models.TextEntry) (int64, error) {
	query := `INSERT INTO shared_texts (title, content, created_at) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, models.TitleFromContent(e.Content), e.Content, e.CreatedAt.UTC()).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: insert text: %w", common.ErrorStorage, err)
	}
	return id, nil
}

// GetAll returns every row ordered by created_at then id, both descending.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.TextEntry, error) {
	query := `SELECT id, title, content, created_at FROM shared_texts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select texts: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	return scanTexts(rows)
}

// DeleteByID removes the row with the given id, if any.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shared_texts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete text %d: %w", common.ErrorStorage, id, err)
	}
	return nil
}

// Count returns the number of rows.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shared_texts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count texts: %w", common.ErrorStorage, err)
	}
	return n, nil
}

func scanTexts(rows *sql.Rows) ([]*models.TextEntry, error) {
	result := make([]*models.TextEntry, 0)
	for rows.Next() {
		var item models.TextEntry
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan text: %w", common.ErrorStorage, err)
		}
		item.CreatedAt = item.CreatedAt.UTC()
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate texts: %w", common.ErrorStorage, err)
	}
	return result, nil
}
