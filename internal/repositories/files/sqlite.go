package files

import (
	"context"
	"database/sql"
	"errors"
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

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.FileEntry) (int64, error) {
	query := `INSERT INTO shared_files (filename, original_name, file_size, created_at) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, e.StoredName, e.OriginalName, e.SizeBytes, e.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: insert file: %w", common.ErrorStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %w", common.ErrorStorage, err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.FileEntry, error) {
	query := `SELECT id, filename, original_name, file_size, created_at FROM shared_files ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select files: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.FileEntry, error) {
	query := `SELECT id, filename, original_name, file_size, created_at FROM shared_files WHERE id = ?`
	return scanFile(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shared_files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete file %d: %w", common.ErrorStorage, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shared_files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count files: %w", common.ErrorStorage, err)
	}
	return n, nil
}

func scanFile(row *sql.Row, id int64) (*models.FileEntry, error) {
	e := &models.FileEntry{}
	err := row.Scan(&e.ID, &e.StoredName, &e.OriginalName, &e.SizeBytes, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: file %d", common.ErrorNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select file %d: %w", common.ErrorStorage, id, err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func scanFiles(rows *sql.Rows) ([]*models.FileEntry, error) {
	result := make([]*models.FileEntry, 0)
	for rows.Next() {
		var item models.FileEntry
		if err := rows.Scan(&item.ID, &item.StoredName, &item.OriginalName, &item.SizeBytes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan file: %w", common.ErrorStorage, err)
		}
		item.CreatedAt = item.CreatedAt.UTC()
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate files: %w", common.ErrorStorage, err)
	}
	return result, nil
}
