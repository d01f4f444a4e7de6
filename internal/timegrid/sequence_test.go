package timegrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSlotSequenceFullDay(t *testing.T) {
	for level := MinZoomLevel; level <= MaxZoomLevel; level++ {
		interval := level.Interval()
		seq := GenerateSlotSequence(DayStartHour, DayEndHour, level)

		require.Len(t, seq, MinutesPerDay/interval+1, "level %d", level)
		require.Equal(t, 0, seq[0].Minutes(), "level %d", level)
		require.Equal(t, MinutesPerDay, seq[len(seq)-1].Minutes(), "level %d", level)

		for i := 1; i < len(seq); i++ {
			require.Equal(t, interval, int(seq[i]-seq[i-1]), "level %d index %d", level, i)
		}
	}
}

func TestGenerateSlotSequenceCachesFullDay(t *testing.T) {
	a := GenerateSlotSequence(DayStartHour, DayEndHour, 2)
	b := GenerateSlotSequence(DayStartHour, DayEndHour, 2)
	require.Equal(t, &a[0], &b[0], "full-day sequences should share backing storage")
}

func TestGenerateSlotSequencePartialRange(t *testing.T) {
	seq := GenerateSlotSequence(8, 18, 0)
	require.Len(t, seq, 11)
	require.Equal(t, MustParseTimeLabel("8:00 AM"), seq[0])
	require.Equal(t, MustParseTimeLabel("6:00 PM"), seq[len(seq)-1])
}

func TestIndexOf(t *testing.T) {
	seq := DaySequence(2) // 15-minute slots

	idx, ok := IndexOf(seq, MustParseTimeLabel("12:00 AM"))
	require.True(t, ok)
	require.Equal(t, 0, idx)

	idx, ok = IndexOf(seq, MustParseTimeLabel("9:00 AM"))
	require.True(t, ok)
	require.Equal(t, 36, idx)

	// Off-step labels are absent, not rounded.
	_, ok = IndexOf(seq, MustParseTimeLabel("9:05 AM"))
	require.False(t, ok)

	// The exclusive boundary is the final entry.
	idx, ok = IndexOf(seq, TimeLabel(MinutesPerDay))
	require.True(t, ok)
	require.Equal(t, len(seq)-1, idx)

	_, ok = IndexOf(seq, TimeLabel(MinutesPerDay+15))
	require.False(t, ok)
	_, ok = IndexOf(seq, TimeLabel(-15))
	require.False(t, ok)
}
