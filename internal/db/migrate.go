package db

import (
	"context"
	"fmt"
)

// migrations is the ordered schema history. Entries are append-only; the
// version applied to a database is tracked in schema_migrations.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS events (
		id            TEXT PRIMARY KEY,
		day           INTEGER NOT NULL,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		start_minutes INTEGER NOT NULL,
		title         TEXT NOT NULL,
		color         TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		teacher       TEXT NOT NULL DEFAULT '',
		location      TEXT NOT NULL DEFAULT '',
		week          INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_day_start ON events(day, start_minutes);

	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		event_id    TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed   INTEGER NOT NULL DEFAULT 0,
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_event_position ON tasks(event_id, position);

	CREATE TABLE IF NOT EXISTS attachments (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL,
		ref        TEXT NOT NULL,
		label      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attachments_task ON attachments(task_id);

	CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS changes (
		id           TEXT PRIMARY KEY,
		timestamp    TEXT NOT NULL,
		op           TEXT NOT NULL,
		entity_type  TEXT NOT NULL,
		entity_id    TEXT NOT NULL,
		payload_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_changes_time ON changes(timestamp, id);
	`,
}

// MigrateUp applies any pending migrations and returns how many ran.
func (db *DB) MigrateUp(ctx context.Context) (int, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for version := current; version < len(migrations); version++ {
		if err := db.applyMigration(ctx, version+1, migrations[version]); err != nil {
			return applied, err
		}
		applied++
	}

	if applied > 0 {
		db.logger.Debug().Int("applied", applied).Msg("schema migrated")
	}
	return applied, nil
}

func (db *DB) applyMigration(ctx context.Context, version int, ddl string) error {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply migration %d: %w", version, err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	return nil
}
