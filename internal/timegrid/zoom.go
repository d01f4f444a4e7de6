package timegrid

import "math"

// ZoomLevel is the committed, discrete grid resolution. Higher levels mean
// finer slots: more of them at a smaller interpolated height.
type ZoomLevel int

// Zoom level bounds.
const (
	MinZoomLevel ZoomLevel = 0
	MaxZoomLevel ZoomLevel = 4

	// DefaultZoomLevel is the 15-minute grid users start on.
	DefaultZoomLevel ZoomLevel = 2
)

// slotIntervals maps each zoom level to its slot width in minutes.
var slotIntervals = [...]int{60, 30, 15, 5, 1}

// slotMultipliers scales the base slot height per zoom level. Finer slots
// shrink so more of them share the same vertical space.
var slotMultipliers = [...]float64{1.2, 1.0, 0.8, 0.6, 0.5}

// Clamp bounds the level to [MinZoomLevel, MaxZoomLevel].
func (z ZoomLevel) Clamp() ZoomLevel {
	if z < MinZoomLevel {
		return MinZoomLevel
	}
	if z > MaxZoomLevel {
		return MaxZoomLevel
	}
	return z
}

// Valid reports whether the level is within the discrete range.
func (z ZoomLevel) Valid() bool { return z >= MinZoomLevel && z <= MaxZoomLevel }

// Interval returns the slot width in minutes at this level.
func (z ZoomLevel) Interval() int { return slotIntervals[z.Clamp()] }

// Multiplier returns the slot-height scale factor at this level.
func (z ZoomLevel) Multiplier() float64 { return slotMultipliers[z.Clamp()] }

// ClampDisplayZoom bounds a continuous display zoom to the drag range.
// Values past either end are a silent no-op, not an error.
func ClampDisplayZoom(z float64) float64 {
	return math.Min(math.Max(z, float64(MinZoomLevel)), float64(MaxZoomLevel))
}

// RoundZoom snaps a continuous display zoom to its nearest discrete level.
func RoundZoom(display float64) ZoomLevel {
	return ZoomLevel(math.Round(ClampDisplayZoom(display)))
}

// SlotHeight interpolates the multiplier table linearly between the floor
// and ceiling levels of the display zoom. At integer zooms it returns
// exactly baseHeight times that level's multiplier, so a settled gesture
// has no drift; between integers it is continuous, which is what keeps the
// grid from jumping while the handle is dragged.
func SlotHeight(displayZoom, baseHeight float64) float64 {
	z := ClampDisplayZoom(displayZoom)
	lo := int(math.Floor(z))
	hi := int(math.Ceil(z))
	frac := z - float64(lo)
	m := slotMultipliers[lo] + (slotMultipliers[hi]-slotMultipliers[lo])*frac
	return baseHeight * m
}

// FormatLabel renders a gutter label at the given discrete resolution.
// Fine grids (level 3+) always carry minutes; everything coarser drops
// ":00" on whole hours and keeps the verbose form for the rest.
// Formatting never changes the underlying label value.
func FormatLabel(t TimeLabel, level ZoomLevel) string {
	if level >= 3 {
		return t.String()
	}
	if t.MinuteOfHour() == 0 {
		return t.HourString()
	}
	return t.String()
}
