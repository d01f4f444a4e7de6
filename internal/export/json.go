// Package export serializes a timetable to interchange formats: a JSON
// document for backup and re-import, and an iCalendar feed for external
// calendar apps.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hmelgaard/rota/internal/models"
)

// DocumentVersion is incremented whenever the JSON layout changes shape.
const DocumentVersion = 1

// Document is the portable JSON form of a timetable. Events carry their
// full task trees inline.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Events     []*models.Event `json:"events"`
}

// NewDocument wraps events in a versioned document.
func NewDocument(events []*models.Event) *Document {
	return &Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Events:     events,
	}
}

// WriteJSON serializes the document, indented for human diffing.
func WriteJSON(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode timetable document: %w", err)
	}
	return nil
}

// ReadJSON parses and validates a document. Every event must pass model
// validation before anything reaches the store; imports are all-or-nothing.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse timetable document: %w", err)
	}

	if doc.Version == 0 {
		return nil, fmt.Errorf("timetable document has no version")
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("timetable document version %d is newer than supported version %d", doc.Version, DocumentVersion)
	}

	for i, event := range doc.Events {
		if event == nil {
			return nil, fmt.Errorf("events[%d] is null", i)
		}
		if err := event.Validate(); err != nil {
			return nil, fmt.Errorf("events[%d] (%q): %w", i, event.Title, err)
		}
		for j, task := range event.Tasks {
			if task == nil {
				return nil, fmt.Errorf("events[%d].tasks[%d] is null", i, j)
			}
			if task.Title == "" {
				return nil, fmt.Errorf("events[%d].tasks[%d] has no title", i, j)
			}
		}
	}

	return &doc, nil
}
