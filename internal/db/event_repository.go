package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hmelgaard/rota/internal/models"
)

// Event repository errors.
var (
	ErrEventNotFound = errors.New("event not found")
)

// EventRepository handles weekly event persistence.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, day, start_time, end_time, title, color, description, teacher, location, week, created_at, updated_at`

// Create validates and inserts an event, assigning an ID when missing.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.createWithExecutor(ctx, r.db, event)
}

// CreateWithTx inserts an event using an existing transaction, used by the
// plan and timetable importers.
func (r *EventRepository) CreateWithTx(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	return r.createWithExecutor(ctx, tx, event)
}

type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

func (r *EventRepository) createWithExecutor(ctx context.Context, ex execer, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	start, err := event.StartLabel()
	if err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	_, err = ex.ExecContext(ctx, `
		INSERT INTO events (
			id, day, start_time, end_time, start_minutes, title, color,
			description, teacher, location, week, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.Day,
		event.Start,
		event.End,
		start.Minutes(),
		event.Title,
		event.Color,
		event.Description,
		event.Teacher,
		event.Location,
		event.Week,
		event.CreatedAt.Format(time.RFC3339),
		event.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Update validates and rewrites an event's mutable fields.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	start, err := event.StartLabel()
	if err != nil {
		return err
	}
	event.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET day = ?, start_time = ?, end_time = ?, start_minutes = ?, title = ?,
		    color = ?, description = ?, teacher = ?, location = ?, week = ?, updated_at = ?
		WHERE id = ?
	`,
		event.Day,
		event.Start,
		event.End,
		start.Minutes(),
		event.Title,
		event.Color,
		event.Description,
		event.Teacher,
		event.Location,
		event.Week,
		event.UpdatedAt.Format(time.RFC3339),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return requireRowAffected(result, ErrEventNotFound)
}

// Delete removes an event; its tasks and attachments cascade.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireRowAffected(result, ErrEventNotFound)
}

// DeleteAllWithTx clears the events table (and everything cascading from
// it) inside an import transaction.
func (r *EventRepository) DeleteAllWithTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

// ListAll returns the whole timetable ordered by day, then start time.
func (r *EventRepository) ListAll(ctx context.Context) ([]*models.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY day, start_minutes, id`)
}

// ListByDay returns one day's events ordered by start time.
func (r *EventRepository) ListByDay(ctx context.Context, day int) ([]*models.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE day = ? ORDER BY start_minutes, id`, day)
}

// ListByWeek returns one week's events ordered by day, then start time.
// Week 0 is the unscheduled bucket that hand-entered events land in.
func (r *EventRepository) ListByWeek(ctx context.Context, week int) ([]*models.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE week = ? ORDER BY day, start_minutes, id`, week)
}

// ListByDayWeek narrows ListByDay to a single week. Generated plans stamp
// every event with a week number, so without this filter all weeks of a
// multi-week plan would stack on the same grid day.
func (r *EventRepository) ListByDayWeek(ctx context.Context, day, week int) ([]*models.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE day = ? AND week = ? ORDER BY start_minutes, id`, day, week)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(scan func(...any) error) (*models.Event, error) {
	var event models.Event
	var createdAt, updatedAt string

	if err := scan(
		&event.ID,
		&event.Day,
		&event.Start,
		&event.End,
		&event.Title,
		&event.Color,
		&event.Description,
		&event.Teacher,
		&event.Location,
		&event.Week,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		event.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		event.UpdatedAt = t
	}
	return &event, nil
}

func requireRowAffected(result sql.Result, missing error) error {
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if count == 0 {
		return missing
	}
	return nil
}
