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

// Task repository errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// TaskRepository handles task-tree and attachment persistence.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, event_id, COALESCE(parent_id, ''), title, description, completed, position, created_at, updated_at`

// Create validates and inserts a task. A missing Position appends the task
// after its current siblings.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.createWithExecutor(ctx, r.db, task, true)
}

// CreateWithTx inserts a task using an existing transaction. Positions are
// taken as given; importers lay out whole sibling runs themselves.
func (r *TaskRepository) CreateWithTx(ctx context.Context, tx *sql.Tx, task *models.Task) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	return r.createWithExecutor(ctx, tx, task, false)
}

type queryExecer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *TaskRepository) createWithExecutor(ctx context.Context, ex queryExecer, task *models.Task, autoPosition bool) error {
	if err := task.Validate(); err != nil {
		return err
	}

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	if autoPosition && task.Position == 0 {
		var next int
		err := ex.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(position)+1, 0) FROM tasks
			WHERE event_id = ? AND COALESCE(parent_id, '') = ?
		`, task.EventID, task.ParentID).Scan(&next)
		if err != nil {
			return fmt.Errorf("next task position: %w", err)
		}
		task.Position = next
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO tasks (id, event_id, parent_id, title, description, completed, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.EventID,
		nullableString(task.ParentID),
		task.Title,
		task.Description,
		boolToInt(task.Completed),
		task.Position,
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID.
func (r *TaskRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Update rewrites a task's title, description and completion state.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?
	`, task.Title, task.Description, boolToInt(task.Completed), task.UpdatedAt.Format(time.RFC3339), task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRowAffected(result, ErrTaskNotFound)
}

// Toggle flips a task's completion flag and returns the new state.
func (r *TaskRepository) Toggle(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET completed = 1 - completed, updated_at = ? WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return false, fmt.Errorf("toggle task: %w", err)
	}
	if err := requireRowAffected(result, ErrTaskNotFound); err != nil {
		return false, err
	}

	var completed int
	if err := r.db.QueryRowContext(ctx, `SELECT completed FROM tasks WHERE id = ?`, id).Scan(&completed); err != nil {
		return false, fmt.Errorf("read toggled task: %w", err)
	}
	return completed != 0, nil
}

// Delete removes a task; subtasks and attachments cascade.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRowAffected(result, ErrTaskNotFound)
}

// ListByEvent returns an event's tasks flat, ordered by parent then
// position. Order is stable until explicitly reordered.
func (r *TaskRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE event_id = ?
		ORDER BY COALESCE(parent_id, ''), position, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// TreeByEvent returns an event's top-level tasks with Subtasks and
// Attachments populated.
func (r *TaskRepository) TreeByEvent(ctx context.Context, eventID string) ([]*models.Task, error) {
	flat, err := r.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Task, len(flat))
	for _, task := range flat {
		byID[task.ID] = task
	}

	var roots []*models.Task
	for _, task := range flat {
		if task.ParentID == "" {
			roots = append(roots, task)
			continue
		}
		parent, ok := byID[task.ParentID]
		if !ok {
			// Orphaned by a concurrent delete; surface it at top level
			// rather than dropping it.
			roots = append(roots, task)
			continue
		}
		parent.Subtasks = append(parent.Subtasks, task)
	}

	for _, task := range flat {
		attachments, err := r.ListAttachments(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		task.Attachments = attachments
	}
	return roots, nil
}

// Reorder rewrites the positions of one sibling run to the given ID order.
// IDs outside the run are ignored; omitted siblings keep their relative
// order after the listed ones.
func (r *TaskRepository) Reorder(ctx context.Context, eventID, parentID string, orderedIDs []string) error {
	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339)
		for position, id := range orderedIDs {
			result, err := tx.ExecContext(ctx, `
				UPDATE tasks SET position = ?, updated_at = ?
				WHERE id = ? AND event_id = ? AND COALESCE(parent_id, '') = ?
			`, position, now, id, eventID, parentID)
			if err != nil {
				return fmt.Errorf("reorder task %s: %w", id, err)
			}
			count, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("reorder rows affected: %w", err)
			}
			if count == 0 {
				return fmt.Errorf("reorder task %s: %w", id, ErrTaskNotFound)
			}
		}
		return nil
	})
}

// AddAttachment validates and inserts an attachment.
func (r *TaskRepository) AddAttachment(ctx context.Context, attachment *models.Attachment) error {
	if err := attachment.Validate(); err != nil {
		return err
	}
	if attachment.ID == "" {
		attachment.ID = uuid.New().String()
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attachments (id, task_id, kind, ref, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		attachment.ID,
		attachment.TaskID,
		string(attachment.Kind),
		attachment.Ref,
		attachment.Label,
		attachment.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// RemoveAttachment deletes an attachment by ID.
func (r *TaskRepository) RemoveAttachment(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return requireRowAffected(result, ErrAttachmentNotFound)
}

// ListAttachments returns a task's attachments in creation order.
func (r *TaskRepository) ListAttachments(ctx context.Context, taskID string) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, kind, ref, label, created_at FROM attachments
		WHERE task_id = ? ORDER BY created_at, id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		var a models.Attachment
		var kind, createdAt string
		if err := rows.Scan(&a.ID, &a.TaskID, &kind, &a.Ref, &a.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		a.Kind = models.AttachmentKind(kind)
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			a.CreatedAt = t
		}
		attachments = append(attachments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return attachments, nil
}

func scanTask(scan func(...any) error) (*models.Task, error) {
	var task models.Task
	var completed int
	var createdAt, updatedAt string

	if err := scan(
		&task.ID,
		&task.EventID,
		&task.ParentID,
		&task.Title,
		&task.Description,
		&completed,
		&task.Position,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	task.Completed = completed != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		task.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		task.UpdatedAt = t
	}
	return &task, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
