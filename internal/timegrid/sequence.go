package timegrid

// Grid day bounds. The full displayed range runs midnight to midnight.
const (
	DayStartHour = 0
	DayEndHour   = 24
)

// daySequences caches the five full-day sequences; only five distinct ones
// exist, and the drag loop asks for one every frame.
var daySequences [MaxZoomLevel + 1][]TimeLabel

func init() {
	for level := MinZoomLevel; level <= MaxZoomLevel; level++ {
		daySequences[level] = buildSequence(DayStartHour, DayEndHour, level)
	}
}

// GenerateSlotSequence returns every TimeLabel from startHour to endHour at
// the level's interval, inclusive of the final boundary when it lands on an
// exact step. The result is strictly increasing and safe to regenerate per
// animation frame: the full-day range is served from a per-level cache.
// Callers must not mutate a cached sequence.
func GenerateSlotSequence(startHour, endHour int, level ZoomLevel) []TimeLabel {
	level = level.Clamp()
	if startHour == DayStartHour && endHour == DayEndHour {
		return daySequences[level]
	}
	return buildSequence(startHour, endHour, level)
}

// DaySequence returns the cached full-day sequence for a level.
func DaySequence(level ZoomLevel) []TimeLabel {
	return daySequences[level.Clamp()]
}

func buildSequence(startHour, endHour int, level ZoomLevel) []TimeLabel {
	start := startHour * 60
	end := endHour * 60
	if end < start {
		return nil
	}
	interval := level.Interval()
	seq := make([]TimeLabel, 0, (end-start)/interval+1)
	for m := start; m <= end; m += interval {
		seq = append(seq, TimeLabel(m))
	}
	return seq
}

// SequenceInterval returns the minute step a sequence was generated with,
// or 0 for sequences too short to have one.
func SequenceInterval(seq []TimeLabel) int {
	if len(seq) < 2 {
		return 0
	}
	return int(seq[1] - seq[0])
}

// IndexOf locates a label in a sequence produced by GenerateSlotSequence.
// Sequences step uniformly, so the lookup is arithmetic rather than a scan.
// A label off the sequence's step, or outside its range, is not found.
func IndexOf(seq []TimeLabel, t TimeLabel) (int, bool) {
	interval := SequenceInterval(seq)
	if interval <= 0 {
		if len(seq) == 1 && seq[0] == t {
			return 0, true
		}
		return 0, false
	}
	offset := int(t - seq[0])
	if offset < 0 || offset%interval != 0 {
		return 0, false
	}
	idx := offset / interval
	if idx >= len(seq) {
		return 0, false
	}
	return idx, true
}
