// Package models defines the timetable domain types shared by the store,
// the TUI, and the CLI.
package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hmelgaard/rota/internal/timegrid"
)

// Day ordinals, matching the plan service contract: 0 = Sunday.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DayNames maps day ordinals to display names.
var DayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Event is one scheduled block on the weekly grid. Start and End are
// 12-hour clock strings ("9:00 AM"); the grid resolves them against the
// current slot sequence at render time. Everything beyond day and times is
// opaque display metadata as far as layout is concerned.
type Event struct {
	ID          string    `json:"id"`
	Day         int       `json:"day"` // 0=Sunday .. 6=Saturday
	Start       string    `json:"startTime"`
	End         string    `json:"endTime"`
	Title       string    `json:"title"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	Teacher     string    `json:"teacher,omitempty"`
	Location    string    `json:"location,omitempty"`
	Week        int       `json:"week,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`

	// Tasks is populated by the store on request; it is not part of the
	// events table itself.
	Tasks []*Task `json:"tasks,omitempty"`
}

// StartLabel parses the start time. Fails with
// *timegrid.InvalidTimeFormatError on malformed input.
func (e *Event) StartLabel() (timegrid.TimeLabel, error) {
	return timegrid.ParseTimeLabel(e.Start)
}

// EndLabel parses the end time.
func (e *Event) EndLabel() (timegrid.TimeLabel, error) {
	return timegrid.ParseTimeLabel(e.End)
}

// Validate checks the event for persistence.
func (e *Event) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Day, validation.Min(Sunday), validation.Max(Saturday)),
		validation.Field(&e.Start, validation.Required, validation.By(validTimeLabel)),
		validation.Field(&e.End, validation.Required, validation.By(validTimeLabel), validation.By(e.endAfterStart)),
		validation.Field(&e.Week, validation.Min(0)),
	)
}

func validTimeLabel(value interface{}) error {
	s, _ := value.(string)
	_, err := timegrid.ParseTimeLabel(s)
	return err
}

// endAfterStart enforces a positive span. An end of "12:00 AM" is the
// midnight day boundary and always follows any start.
func (e *Event) endAfterStart(interface{}) error {
	start, err := e.StartLabel()
	if err != nil {
		return nil // reported by the field's own rule
	}
	end, err := e.EndLabel()
	if err != nil {
		return nil
	}
	if end.Minutes() == 0 {
		return nil
	}
	if end <= start {
		return validation.NewError("validation_event_span", "end time must be after start time")
	}
	return nil
}
