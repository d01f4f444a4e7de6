package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hmelgaard/rota/internal/models"
)

// ChangeRepository persists the append-only change feed.
type ChangeRepository struct {
	db *DB
}

// NewChangeRepository creates a new ChangeRepository.
func NewChangeRepository(db *DB) *ChangeRepository {
	return &ChangeRepository{db: db}
}

// Append records a change. The feed is append-only; records are never
// updated or deleted.
func (r *ChangeRepository) Append(ctx context.Context, change *models.Change) error {
	if change.Op == "" {
		return fmt.Errorf("change op is required")
	}
	if change.ID == "" {
		change.ID = uuid.New().String()
	}
	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now().UTC()
	}

	var payload any
	if len(change.Payload) > 0 {
		payload = string(change.Payload)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO changes (id, timestamp, op, entity_type, entity_id, payload_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		change.ID,
		change.Timestamp.Format(time.RFC3339Nano),
		string(change.Op),
		string(change.EntityType),
		change.EntityID,
		payload,
	)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}
	return nil
}

// ListRecent returns the newest changes first, at most limit of them.
func (r *ChangeRepository) ListRecent(ctx context.Context, limit int) ([]*models.Change, error) {
	return r.listPage(ctx, `
		SELECT id, timestamp, op, entity_type, entity_id, COALESCE(payload_json, '')
		FROM changes ORDER BY timestamp DESC, id DESC LIMIT ?
	`, normalizeLimit(limit))
}

// ListBefore pages the change log: up to limit changes strictly older
// than the change identified by cursorID, newest first. Feed it the ID of
// the last change of the previous page. An unknown cursor yields an empty
// page, same as walking past the oldest entry.
func (r *ChangeRepository) ListBefore(ctx context.Context, cursorID string, limit int) ([]*models.Change, error) {
	if cursorID == "" {
		return r.ListRecent(ctx, limit)
	}
	return r.listPage(ctx, `
		SELECT c.id, c.timestamp, c.op, c.entity_type, c.entity_id, COALESCE(c.payload_json, '')
		FROM changes c, changes cursor
		WHERE cursor.id = ?
		  AND (c.timestamp, c.id) < (cursor.timestamp, cursor.id)
		ORDER BY c.timestamp DESC, c.id DESC LIMIT ?
	`, cursorID, normalizeLimit(limit))
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

func (r *ChangeRepository) listPage(ctx context.Context, query string, args ...any) ([]*models.Change, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	var changes []*models.Change
	for rows.Next() {
		var c models.Change
		var timestamp, op, entityType, payload string
		if err := rows.Scan(&c.ID, &timestamp, &op, &entityType, &c.EntityID, &payload); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
			c.Timestamp = t
		}
		c.Op = models.ChangeOp(op)
		c.EntityType = models.EntityType(entityType)
		if payload != "" {
			c.Payload = []byte(payload)
		}
		changes = append(changes, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return changes, nil
}

// Count returns the total number of recorded changes.
func (r *ChangeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM changes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count changes: %w", err)
	}
	return count, nil
}
