package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrations holds the compiled-in schema history. Entries are applied in
// order inside a single transaction per version and recorded in
// schema_migrations; re-running Migrate is a no-op for applied versions.
var migrations = []struct {
	version    int
	statements []string
}{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS reservations (
				id         TEXT PRIMARY KEY,
				date       TEXT NOT NULL,
				date_key   TEXT NOT NULL,
				people     INTEGER NOT NULL CHECK (people > 0),
				reason     TEXT NOT NULL CHECK (length(reason) > 0),
				type       TEXT NOT NULL CHECK (type IN ('specific-time', 'full-venue')),
				slot       TEXT,
				name       TEXT NOT NULL,
				email      TEXT NOT NULL,
				phone      TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_reservations_date_key ON reservations (date_key)`,
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				display_name  TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				is_admin      INTEGER NOT NULL DEFAULT 0,
				disabled      INTEGER NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS sessions (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
				token      TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS ingredients (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL UNIQUE,
				category    TEXT NOT NULL,
				price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
				available   INTEGER NOT NULL DEFAULT 1,
				created_at  TEXT NOT NULL,
				updated_at  TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS menu_items (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				category    TEXT NOT NULL,
				price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
				available   INTEGER NOT NULL DEFAULT 1,
				created_at  TEXT NOT NULL,
				updated_at  TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS menu_item_ingredients (
				menu_item_id  TEXT NOT NULL REFERENCES menu_items (id) ON DELETE CASCADE,
				ingredient_id TEXT NOT NULL REFERENCES ingredients (id) ON DELETE CASCADE,
				PRIMARY KEY (menu_item_id, ingredient_id)
			)`,
		},
	},
}

// Migrate brings the database schema up to the latest version.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, pool.DB(), m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		version := m.version
		statements := m.statements
		err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d failed: %w", version, err)
				}
			}
			_, err := tx.Exec(
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				version, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func migrationApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect migration state: %w", err)
	}
	return count > 0, nil
}
