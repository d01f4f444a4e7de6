package timegrid

// BaseSlotHeight is the default unscaled height of one slot, in whatever
// unit the renderer works in (CSS pixels for a browser grid, fractional
// rows for a terminal one).
const BaseSlotHeight = 40.0

// Metrics carries the per-frame geometry inputs for placement.
type Metrics struct {
	SlotHeight float64 // current interpolated slot height
	Gap        float64 // vertical space between adjacent slots
	MinHeight  float64 // floor applied to event heights so short events stay visible
}

// Placement is an event's vertical extent in the renderer's unit.
type Placement struct {
	Top    float64
	Height float64
}

// PlaceEvent positions an event spanning [start, end) against the current
// sequence. ok is false when either label is absent from the sequence —
// which happens transiently while a new zoom level's sequence is being
// swapped in, or when an event does not sit on a slot boundary at the
// current resolution. Callers skip the event for that frame and recover on
// the next consistent one; placement never panics mid-render.
//
// An end label of 0 ("12:00 AM") on an event that starts later in the day
// means the exclusive 24:00 boundary.
func PlaceEvent(start, end TimeLabel, seq []TimeLabel, m Metrics) (Placement, bool) {
	startIdx, ok := IndexOf(seq, start)
	if !ok {
		return Placement{}, false
	}

	if end <= start && end.Minutes() == 0 {
		end = TimeLabel(MinutesPerDay)
	}
	endIdx, ok := IndexOf(seq, end)
	if !ok {
		return Placement{}, false
	}

	span := endIdx - startIdx
	top := float64(startIdx) * (m.SlotHeight + m.Gap)
	height := float64(span)*m.SlotHeight + float64(span-1)*m.Gap
	if height < m.MinHeight {
		// Zero or inverted spans collapse to the floor instead of being
		// rejected, so a malformed event stays clickable and editable.
		height = m.MinHeight
	}
	return Placement{Top: top, Height: height}, true
}

// NowIndicator is the live clock's position within its containing slot.
type NowIndicator struct {
	SlotIndex int
	Fraction  float64 // [0, 1): offset within the slot, 0.0 at the slot start minute
}

// PlaceNowIndicator finds the slot whose [start, start+interval) window
// contains the given minute. The window is inclusive at its start and
// exclusive at its end; a minute before the first slot or at/after the
// final boundary places no indicator.
func PlaceNowIndicator(nowMinutes int, seq []TimeLabel) (NowIndicator, bool) {
	interval := SequenceInterval(seq)
	if interval <= 0 {
		return NowIndicator{}, false
	}
	first := seq[0].Minutes()
	last := seq[len(seq)-1].Minutes()
	if nowMinutes < first || nowMinutes >= last {
		return NowIndicator{}, false
	}
	idx := (nowMinutes - first) / interval
	slotStart := first + idx*interval
	return NowIndicator{
		SlotIndex: idx,
		Fraction:  float64(nowMinutes-slotStart) / float64(interval),
	}, true
}
