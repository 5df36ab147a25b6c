package sqlite

import (
	"database/sql"
	"fmt"
)

// migration represents a single database migration
type migration struct {
	version int
	name    string
	up      string
}

// migrations is the ordered list of all database migrations
// Each migration should be idempotent and safe to run multiple times
var migrations = []migration{
	{
		version: 1,
		name:    "create_blogs_table",
		up: `
			CREATE TABLE IF NOT EXISTS blogs (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				body TEXT NOT NULL,
				author_id TEXT NOT NULL,
				status TEXT NOT NULL CHECK (status IN ('Draft', 'Published')),
				created_at TIMESTAMP NOT NULL,
				saved_at TIMESTAMP NOT NULL,
				published_title TEXT,
				published_body TEXT,
				published_at TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_blogs_saved_at
			ON blogs(saved_at DESC);
		`,
	},
	{
		version: 2,
		name:    "index_blogs_by_author_and_status",
		up: `
			CREATE INDEX IF NOT EXISTS idx_blogs_author_id
			ON blogs(author_id);

			CREATE INDEX IF NOT EXISTS idx_blogs_published_at
			ON blogs(published_at DESC)
			WHERE published_at IS NOT NULL;
		`,
	},
}

// runMigrations executes all pending migrations
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}

		_, err = tx.Exec(m.up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.version,
			m.name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
