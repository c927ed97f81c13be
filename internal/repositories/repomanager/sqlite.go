package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lanshare/internal/dbx"
	"github.com/dmitrijs2005/lanshare/internal/migrations"
	"github.com/dmitrijs2005/lanshare/internal/repositories/files"
	"github.com/dmitrijs2005/lanshare/internal/repositories/texts"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Dialect() string { return DialectSQLite }

func (m *SQLiteRepositoryManager) Texts(db dbx.DBTX) texts.Repository {
	return texts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}
