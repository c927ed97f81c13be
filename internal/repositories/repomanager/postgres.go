package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lanshare/internal/dbx"
	"github.com/dmitrijs2005/lanshare/internal/migrations"
	"github.com/dmitrijs2005/lanshare/internal/repositories/files"
	"github.com/dmitrijs2005/lanshare/internal/repositories/texts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Dialect reports DialectPostgres.
func (m *PostgresRepositoryManager) Dialect() string { return DialectPostgres }

// Texts returns a texts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Texts(db dbx.DBTX) texts.Repository {
	return texts.NewPostgresRepository(db)
}

// Files returns a files.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres())
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.PostgresDir)
}
