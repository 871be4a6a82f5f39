// Package migrations applies the embedded SQL schema, grounded on the
// teacher backend's migrations/migrate.go: goose against an embedded
// filesystem, opened through the pgx stdlib driver.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate runs every pending "up" migration against pgurl. Unlike the
// teacher's version it returns an error instead of calling log.Fatal —
// the caller (cmd/server) owns how a startup failure is reported.
func Migrate(pgurl string) error {
	db, err := sql.Open("pgx", pgurl)
	if err != nil {
		return fmt.Errorf("migrations: open: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
