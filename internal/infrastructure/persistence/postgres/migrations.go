package postgres

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════
// Simple forward-only migrations, tracked in schema_migrations by version.
// The analytics snapshot lives in a JSONB column: it is a derived value
// rebuilt wholesale on every sync, so relational decomposition would only
// add joins without adding meaning.

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_students",
		sql: `
			CREATE TABLE IF NOT EXISTS students (
				id UUID PRIMARY KEY,
				handle TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				email TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				email_enabled BOOLEAN NOT NULL DEFAULT TRUE,
				reminder_count INTEGER NOT NULL DEFAULT 0,
				last_synced_at TIMESTAMPTZ,
				last_synced_handle TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_students_handle ON students (handle);
		`,
	},
	{
		version: 2,
		name:    "create_profile_snapshots",
		sql: `
			CREATE TABLE IF NOT EXISTS profile_snapshots (
				student_id UUID PRIMARY KEY REFERENCES students (id) ON DELETE CASCADE,
				handle TEXT NOT NULL,
				analytics JSONB NOT NULL,
				synced_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_profile_snapshots_synced_at
				ON profile_snapshots (synced_at);
		`,
	},
}

// Migrate applies all pending migrations in order.
func Migrate(ctx context.Context, conn *Connection) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: create schema_migrations: %v", ErrMigrationFailed, err)
	}

	for _, m := range migrations {
		var exists bool
		err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`,
			m.version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%w: check version %d: %v", ErrMigrationFailed, m.version, err)
		}
		if exists {
			continue
		}

		if _, err := conn.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("%w: apply %s: %v", ErrMigrationFailed, m.name, err)
		}
		if _, err := conn.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.version, m.name,
		); err != nil {
			return fmt.Errorf("%w: record %s: %v", ErrMigrationFailed, m.name, err)
		}
	}

	return nil
}
