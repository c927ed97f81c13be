package texts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/dbx"
	"github.com/dmitrijs2005/lanshare/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.TextEntry) (int64, error) {
	query := `INSERT INTO shared_texts (title, content, created_at) VALUES (?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, models.TitleFromContent(e.Content), e.Content, e.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: insert text: %w", common.ErrorStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %w", common.ErrorStorage, err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.TextEntry, error) {
	query := `SELECT id, title, content, created_at FROM shared_texts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select texts: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	return scanTexts(rows)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shared_texts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete text %d: %w", common.ErrorStorage, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shared_texts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count texts: %w", common.ErrorStorage, err)
	}
	return n, nil
}
