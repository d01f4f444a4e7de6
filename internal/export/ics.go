package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/hmelgaard/rota/internal/models"
	"github.com/hmelgaard/rota/internal/timegrid"
)

// ICSOptions anchor the abstract weekly grid to concrete dates. The grid
// itself only knows weekdays and clock times; a calendar feed needs a real
// first week to hang them on.
type ICSOptions struct {
	// WeekAnchor is any date inside the first exported week. The week is
	// taken to start on Sunday.
	WeekAnchor time.Time

	// Weeks repeats each event weekly that many times. Values below 1
	// export single occurrences.
	Weeks int

	// Location is the timezone events are written in (default time.Local).
	Location *time.Location
}

// rruleWeekdays maps day ordinals (0=Sunday) to RRULE weekdays.
var rruleWeekdays = [...]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// WriteICS serializes events as a VCALENDAR. Events with malformed times
// are reported, not silently dropped.
func WriteICS(w io.Writer, events []*models.Event, opts ICSOptions) error {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.WeekAnchor.IsZero() {
		opts.WeekAnchor = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//rota//timetable//EN")

	weekStart := startOfWeek(opts.WeekAnchor.In(opts.Location))
	now := time.Now().In(opts.Location)

	for i, event := range events {
		start, end, err := eventTimes(event, weekStart, opts.Location)
		if err != nil {
			return fmt.Errorf("events[%d] (%q): %w", i, event.Title, err)
		}

		uid := event.ID
		if uid == "" {
			uid = fmt.Sprintf("rota-%d-%s", i, start.Format("20060102T150405"))
		}

		ve := cal.AddEvent(uid + "@rota")
		ve.SetDtStampTime(now)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(event.Title)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		if event.Location != "" {
			ve.SetLocation(event.Location)
		}
		if event.Teacher != "" {
			ve.SetOrganizer(event.Teacher)
		}

		if opts.Weeks > 1 {
			rule, err := rrule.NewRRule(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Count:     opts.Weeks,
				Byweekday: []rrule.Weekday{rruleWeekdays[event.Day]},
			})
			if err != nil {
				return fmt.Errorf("events[%d] (%q): build recurrence: %w", i, event.Title, err)
			}
			ve.AddRrule(rule.String())
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serialize calendar: %w", err)
	}
	return nil
}

// eventTimes resolves an event's weekday and clock labels to concrete
// timestamps in the anchor week. A midnight end lands on the next day.
func eventTimes(event *models.Event, weekStart time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if event.Day < models.Sunday || event.Day > models.Saturday {
		return time.Time{}, time.Time{}, fmt.Errorf("day %d out of range", event.Day)
	}

	startLabel, err := event.StartLabel()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endLabel, err := event.EndLabel()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	day := weekStart.AddDate(0, 0, event.Day)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, startLabel.Minutes(), 0, 0, loc)

	endMinutes := endLabel.Minutes()
	if endMinutes <= startLabel.Minutes() {
		// Midnight wrap: the event runs to the end of the day.
		endMinutes = timegrid.MinutesPerDay
	}
	end := time.Date(day.Year(), day.Month(), day.Day(), 0, endMinutes, 0, 0, loc)

	return start, end, nil
}

// startOfWeek returns midnight on the Sunday of t's week.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
