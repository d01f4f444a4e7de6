package timegrid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTimeLabel(t *testing.T) {
	cases := map[string]int{
		"12:00 AM": 0,
		"12:30 am": 30,
		"1:00 AM":  60,
		"9:05 AM":  9*60 + 5,
		"11:59 AM": 11*60 + 59,
		"12:00 PM": 12 * 60,
		"12:01 pm": 12*60 + 1,
		"3:15 PM":  15*60 + 15,
		"11:59 PM": 23*60 + 59,
	}
	for input, want := range cases {
		got, err := ParseTimeLabel(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got.Minutes(), input)
	}
}

func TestParseTimeLabelRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"", "9:00", "25:00 AM", "0:30 AM", "9:5 AM", "9:60 AM",
		"9:00 XM", "nine AM", "9.00 AM", "9:00 AM extra",
	} {
		_, err := ParseTimeLabel(input)
		require.Error(t, err, input)

		var invalid *InvalidTimeFormatError
		require.True(t, errors.As(err, &invalid), input)
		require.Equal(t, input, invalid.Input)
	}
}

func TestTimeLabelRoundTrip(t *testing.T) {
	// parse(format(m)) must reproduce m for every minute of the day.
	for m := 0; m < MinutesPerDay; m++ {
		label := TimeLabel(m)
		parsed, err := ParseTimeLabel(label.String())
		require.NoError(t, err, label.String())
		require.Equal(t, m, parsed.Minutes(), label.String())
	}
}

func TestTimeLabelDayBoundaryRendersAsMidnight(t *testing.T) {
	require.Equal(t, "12:00 AM", TimeLabel(MinutesPerDay).String())
}
