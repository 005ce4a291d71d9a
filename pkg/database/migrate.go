package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// timestampType resolves the column type used for instants on each dialect.
func timestampType(driverName string) string {
	if driverName == "sqlite3" {
		return "TIMESTAMP"
	}
	return "TIMESTAMPTZ"
}

func schema(driverName string) []string {
	ts := timestampType(driverName)
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username_display TEXT NOT NULL,
			username_normalized TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at ` + ts + ` NOT NULL,
			expires_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			due_date TEXT NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS completions (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			completed_at ` + ts + ` NOT NULL,
			PRIMARY KEY (user_id, event_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_due_date ON events(due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_id ON completions(user_id)`,
	}
}

// Migrate creates the tables the service needs. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
