// Package repomanager vends dialect-specific repositories and owns schema
// migrations for the metadata store.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/dbx"
	"github.com/dmitrijs2005/lanshare/internal/filex"
	"github.com/dmitrijs2005/lanshare/internal/repositories/files"
	"github.com/dmitrijs2005/lanshare/internal/repositories/texts"
	"github.com/pressly/goose/v3"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"

	// busyTimeoutMs bounds how long a writer waits on a locked SQLite file.
	busyTimeoutMs = 5000
)

// RepositoryManager binds repositories to a *sql.DB or *sql.Tx.
type RepositoryManager interface {
	Dialect() string
	RunMigrations(ctx context.Context, db *sql.DB) error
	Texts(db dbx.DBTX) texts.Repository
	Files(db dbx.DBTX) files.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// DialectFor picks the store dialect from dsn: postgres:// and postgresql://
// URLs select PostgreSQL, everything else is an SQLite file path.
func DialectFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the metadata store described by dsn, applies pending
// migrations and returns the pool together with a matching manager.
// Calling it on every start is safe; migrations already applied are skipped.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)

	switch DialectFor(dsn) {
	case DialectPostgres:
		db, err = sql.Open("pgx", dsn)
		m = NewPostgresRepositoryManager()
	default:
		db, err = openSQLite(dsn)
		m = NewSQLiteRepositoryManager()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open metadata store: %w", common.ErrorStorage, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%w: ping metadata store: %w", common.ErrorStorage, err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%w: migrate metadata store: %w", common.ErrorStorage, err)
	}

	return db, m, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}

	// One connection serializes all statements; this is also what keeps an
	// in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_time_format=sqlite", path, busyTimeoutMs)
}
