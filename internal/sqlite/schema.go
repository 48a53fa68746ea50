// Package sqlite implements the SQLite ContactStore.
// This file embeds the goose migrations that create the schema.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Column lists shared by the contact queries. The order matches the Scan in queryContacts.
const (
	contactColumns = "first_name, last_name, phone, email, street, city, state, zip"

	// searchWhere matches every contact column, plus the composed name.
	searchWhere = `user_id = ? AND (
    first_name LIKE ? OR
    last_name LIKE ? OR
    phone LIKE ? OR
    email LIKE ? OR
    street LIKE ? OR
    city LIKE ? OR
    state LIKE ? OR
    zip LIKE ? OR
    (first_name || ' ' || last_name) LIKE ?
)`

	// searchPatternCount is the number of LIKE placeholders in searchWhere.
	searchPatternCount = 9
)

// migrate brings the schema up to date. Already-applied migrations are
// skipped, so calling it on every open is safe.
func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
