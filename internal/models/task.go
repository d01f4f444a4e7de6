package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Task is one entry in an event's check list. Tasks nest one level at a
// time through ParentID and keep a stable Position within their siblings
// until explicitly reordered.
type Task struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	ParentID    string    `json:"parent_id,omitempty"` // empty for top-level tasks
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Position    int       `json:"order"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`

	Subtasks    []*Task       `json:"subtasks,omitempty"`
	Attachments []*Attachment `json:"attachments,omitempty"`
}

// Validate checks the task for persistence.
func (t *Task) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.EventID, validation.Required),
		validation.Field(&t.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&t.Position, validation.Min(0)),
	)
}

// AttachmentKind distinguishes file paths from URLs.
type AttachmentKind string

// Attachment kinds.
const (
	AttachmentFile AttachmentKind = "file"
	AttachmentLink AttachmentKind = "link"
)

// Attachment is a file or link pinned to a task. Ref is a local path for
// files and a URL for links; rota stores the reference, never the content.
type Attachment struct {
	ID        string         `json:"id"`
	TaskID    string         `json:"task_id"`
	Kind      AttachmentKind `json:"kind"`
	Ref       string         `json:"ref"`
	Label     string         `json:"label,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
}

// Validate checks the attachment for persistence.
func (a *Attachment) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.TaskID, validation.Required),
		validation.Field(&a.Kind, validation.Required, validation.In(AttachmentFile, AttachmentLink)),
		validation.Field(&a.Ref, validation.Required),
	)
}
