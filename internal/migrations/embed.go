// Package migrations embeds the goose migrations for each supported
// metadata store dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed postgres/*.sql
var postgresFS embed.FS

// SQLite returns the migrations for the SQLite dialect rooted at "sqlite".
func SQLite() embed.FS { return sqliteFS }

// Postgres returns the migrations for the PostgreSQL dialect rooted at "postgres".
func Postgres() embed.FS { return postgresFS }

const (
	SQLiteDir   = "sqlite"
	PostgresDir = "postgres"
)
