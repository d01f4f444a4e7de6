// Package planner talks to the external plan service that turns a skill
// description into a multi-week timetable of events and tasks.
package planner

import (
	"github.com/hmelgaard/rota/internal/models"
)

// Difficulty levels accepted by the plan service.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Request describes what to generate a learning plan for.
type Request struct {
	Skill        string   `json:"skill"`
	Duration     string   `json:"duration"`
	HoursPerWeek int      `json:"hoursPerWeek"`
	Difficulty   string   `json:"difficulty"`
	FocusAreas   []string `json:"focusAreas,omitempty"`
}

// WeeklyPlan is one week of a generated plan.
type WeeklyPlan struct {
	Week               int             `json:"week"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	LearningObjectives []string        `json:"learningObjectives,omitempty"`
	Events             []*models.Event `json:"events"`
}

// Plan is the service's full response.
type Plan struct {
	Skill       string        `json:"skill"`
	Description string        `json:"description,omitempty"`
	TotalWeeks  int           `json:"totalWeeks"`
	WeeklyPlans []*WeeklyPlan `json:"weeklyPlans"`
}

// EventsForWeek returns the plan's events for one week, or nil when the
// week is out of range.
func (p *Plan) EventsForWeek(week int) []*models.Event {
	for _, wp := range p.WeeklyPlans {
		if wp.Week == week {
			return wp.Events
		}
	}
	return nil
}

// AllEvents flattens the plan into a single event list, stamping each
// event with its week number.
func (p *Plan) AllEvents() []*models.Event {
	var events []*models.Event
	for _, wp := range p.WeeklyPlans {
		for _, event := range wp.Events {
			if event.Week == 0 {
				event.Week = wp.Week
			}
			events = append(events, event)
		}
	}
	return events
}
