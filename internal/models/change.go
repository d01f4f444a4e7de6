package models

import (
	"encoding/json"
	"time"
)

// ChangeOp categorizes a store mutation.
type ChangeOp string

// Change operations.
const (
	ChangeEventCreated ChangeOp = "event.created"
	ChangeEventUpdated ChangeOp = "event.updated"
	ChangeEventDeleted ChangeOp = "event.deleted"

	ChangeTaskCreated   ChangeOp = "task.created"
	ChangeTaskUpdated   ChangeOp = "task.updated"
	ChangeTaskToggled   ChangeOp = "task.toggled"
	ChangeTaskReordered ChangeOp = "task.reordered"
	ChangeTaskDeleted   ChangeOp = "task.deleted"

	ChangeAttachmentAdded   ChangeOp = "attachment.added"
	ChangeAttachmentRemoved ChangeOp = "attachment.removed"

	ChangePlanImported      ChangeOp = "plan.imported"
	ChangeTimetableImported ChangeOp = "timetable.imported"
	ChangeZoomCommitted     ChangeOp = "zoom.committed"
)

// EntityType identifies what a change touched.
type EntityType string

// Entity types.
const (
	EntityEvent      EntityType = "event"
	EntityTask       EntityType = "task"
	EntityAttachment EntityType = "attachment"
	EntitySettings   EntityType = "settings"
	EntityTimetable  EntityType = "timetable"
)

// Change is one append-only audit record of a timetable mutation. The feed
// backs `rota log` and drives in-process cache invalidation in the TUI.
type Change struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Op         ChangeOp        `json:"op"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}
