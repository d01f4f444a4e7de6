package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmelgaard/rota/internal/models"
)

// anchor is a Wednesday; its week starts Sunday 2026-08-30.
var anchor = time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

func TestWriteICSSingleOccurrence(t *testing.T) {
	events := []*models.Event{
		{
			ID:          "e1",
			Day:         models.Monday,
			Start:       "9:00 AM",
			End:         "10:30 AM",
			Title:       "Algorithms",
			Description: "graphs",
			Location:    "B-204",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, ICSOptions{WeekAnchor: anchor, Location: time.UTC}))

	cal, err := ical.ParseCalendar(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)

	ve := cal.Events()[0]
	start, err := ve.GetStartAt()
	require.NoError(t, err)
	// Monday of the anchor week at 9:00.
	assert.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), start.UTC())

	end, err := ve.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC), end.UTC())

	assert.Equal(t, "Algorithms", ve.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Nil(t, ve.GetProperty(ical.ComponentPropertyRrule))
}

func TestWriteICSWeeklyRecurrence(t *testing.T) {
	events := []*models.Event{
		{ID: "e1", Day: models.Thursday, Start: "2:00 PM", End: "3:00 PM", Title: "Lab"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, ICSOptions{WeekAnchor: anchor, Weeks: 4, Location: time.UTC}))

	serialized := buf.String()
	assert.Contains(t, serialized, "FREQ=WEEKLY")
	assert.Contains(t, serialized, "COUNT=4")
	assert.Contains(t, serialized, "BYDAY=TH")
}

func TestWriteICSMidnightEnd(t *testing.T) {
	events := []*models.Event{
		{ID: "e1", Day: models.Friday, Start: "11:00 PM", End: "12:00 AM", Title: "Late"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, ICSOptions{WeekAnchor: anchor, Location: time.UTC}))

	cal, err := ical.ParseCalendar(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)

	end, err := cal.Events()[0].GetEndAt()
	require.NoError(t, err)
	// Friday is 2026-09-04; the event runs to Saturday midnight.
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), end.UTC())
}

func TestWriteICSRejectsMalformedTimes(t *testing.T) {
	events := []*models.Event{
		{ID: "e1", Day: models.Monday, Start: "25:00", End: "10:00 AM", Title: "broken"},
	}

	var buf bytes.Buffer
	err := WriteICS(&buf, events, ICSOptions{WeekAnchor: anchor, Location: time.UTC})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "broken"))
}

func TestStartOfWeek(t *testing.T) {
	sunday := startOfWeek(anchor)
	assert.Equal(t, time.Weekday(0), sunday.Weekday())
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), sunday)

	// A Sunday is its own week start.
	assert.Equal(t, sunday, startOfWeek(sunday))
}
