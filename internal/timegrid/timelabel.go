// Package timegrid implements the zoomable time-axis geometry for the week
// grid: wall-clock labels, per-resolution slot sequences, interpolated slot
// heights, the drag-zoom state machine, and event placement against the
// current sequence. The package is pure; rendering and persistence live in
// internal/tui and internal/db.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in a full grid day.
const MinutesPerDay = 24 * 60

// TimeLabel is a wall-clock time of day in minutes since midnight.
// MinutesPerDay (24:00) is permitted as the exclusive day boundary that
// terminates a full-day slot sequence.
type TimeLabel int

// InvalidTimeFormatError reports a string that does not parse as a 12-hour
// clock time.
type InvalidTimeFormatError struct {
	Input string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q", e.Input)
}

// ParseTimeLabel parses a 12-hour clock string such as "9:00 AM" or
// "12:05 pm". A malformed string fails with *InvalidTimeFormatError rather
// than producing a sentinel value that could leak into slot arithmetic.
func ParseTimeLabel(s string) (TimeLabel, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, &InvalidTimeFormatError{Input: s}
	}

	meridiem := strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, &InvalidTimeFormatError{Input: s}
	}

	hourPart, minutePart, ok := strings.Cut(fields[0], ":")
	if !ok {
		return 0, &InvalidTimeFormatError{Input: s}
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, &InvalidTimeFormatError{Input: s}
	}
	if len(minutePart) != 2 {
		return 0, &InvalidTimeFormatError{Input: s}
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, &InvalidTimeFormatError{Input: s}
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, &InvalidTimeFormatError{Input: s}
	}

	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}
	return TimeLabel(hour*60 + minute), nil
}

// MustParseTimeLabel is ParseTimeLabel for static strings in tests and
// fixtures; it panics on malformed input.
func MustParseTimeLabel(s string) TimeLabel {
	t, err := ParseTimeLabel(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes returns the label's minutes-since-midnight value.
func (t TimeLabel) Minutes() int { return int(t) }

// MinuteOfHour returns the minute component of the label.
func (t TimeLabel) MinuteOfHour() int { return normalizeMinutes(int(t)) % 60 }

// String renders the canonical verbose display form, e.g. "8:05 AM".
// The 24:00 boundary renders as "12:00 AM", like midnight.
func (t TimeLabel) String() string {
	hour12, minute, meridiem := t.clock()
	return fmt.Sprintf("%d:%02d %s", hour12, minute, meridiem)
}

// HourString renders the economical form without minutes, e.g. "8 AM".
func (t TimeLabel) HourString() string {
	hour12, _, meridiem := t.clock()
	return fmt.Sprintf("%d %s", hour12, meridiem)
}

func (t TimeLabel) clock() (hour12, minute int, meridiem string) {
	m := normalizeMinutes(int(t))
	hour24 := m / 60
	minute = m % 60
	meridiem = "AM"
	if hour24 >= 12 {
		meridiem = "PM"
	}
	hour12 = hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return hour12, minute, meridiem
}

func normalizeMinutes(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
