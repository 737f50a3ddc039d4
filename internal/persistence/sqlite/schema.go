package sqlite

import (
	"context"
	"fmt"
)

// schemaStatements describe the full tracker schema. The schema is fixed, so
// migrations are a simple ordered replay of idempotent statements.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS offices (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		address     TEXT NOT NULL,
		pay_rate    REAL NOT NULL CHECK (pay_rate > 0),
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		day            TEXT NOT NULL UNIQUE,
		start_at       TEXT NOT NULL,
		end_at         TEXT NOT NULL,
		all_day        INTEGER NOT NULL DEFAULT 1,
		total_pay_rate REAL NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_offices (
		event_id  TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		office_id TEXT NOT NULL,
		position  INTEGER NOT NULL,
		PRIMARY KEY (event_id, office_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		display_name  TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		revoked_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
}

// Migrate applies the tracker schema to the pooled database.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
