// Package migrations embeds the schema migrations applied with goose at
// startup. The same SQL runs on both supported drivers, so migrations avoid
// engine-specific column types and serial keys.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// Run applies all pending migrations to db. The dialect must match the active
// driver: "sqlite3" for modernc sqlite, "pgx" for postgres.
func Run(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
