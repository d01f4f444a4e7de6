package timegrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// unitController moves one zoom level per unit of upward travel, which
// keeps the arithmetic in these tests readable.
func unitController(level ZoomLevel) *Controller {
	return NewController(level, 1.0)
}

func TestGestureZoomCommit(t *testing.T) {
	c := unitController(2)
	require.Equal(t, 2.0, c.DisplayZoom())

	require.True(t, c.Begin(100))
	c.Move(100 - 1.6) // drag up 1.6 units: display 2 -> 3.6

	update := c.Frame()
	require.InDelta(t, 3.6, update.Display, 1e-12)
	require.True(t, update.LevelChanged)
	require.Equal(t, ZoomLevel(4), update.Level, "round(3.6) commits live")

	committed := c.Release()
	require.Equal(t, ZoomLevel(4), committed)
	require.Equal(t, 4.0, c.DisplayZoom())
	require.False(t, c.Dragging())
	require.Equal(t, 1, SequenceInterval(DaySequence(committed)))
}

func TestGestureIdleMirrorsCommittedLevel(t *testing.T) {
	c := unitController(3)
	require.Equal(t, float64(c.Level()), c.DisplayZoom())

	update := c.Frame()
	require.False(t, update.LevelChanged)
	require.Equal(t, 3.0, update.Display)
}

func TestGestureRoundTripIsIdempotent(t *testing.T) {
	c := unitController(2)
	before := c.Level()
	heightBefore := SlotHeight(c.DisplayZoom(), 40)

	require.True(t, c.Begin(50))
	c.Move(49) // up one level
	c.Frame()
	c.Move(50) // back to the anchor
	c.Frame()

	require.Equal(t, before, c.Release())
	require.Equal(t, heightBefore, SlotHeight(c.DisplayZoom(), 40))
	require.Equal(t, DaySequence(before), DaySequence(c.Level()))
}

func TestGestureRapidOscillationSettles(t *testing.T) {
	c := unitController(2)
	require.True(t, c.Begin(0))

	// 2 -> 3 -> 2 within a few frames.
	c.Move(-1)
	update := c.Frame()
	require.Equal(t, ZoomLevel(3), update.Level)
	require.True(t, update.LevelChanged)

	c.Move(0)
	update = c.Frame()
	require.Equal(t, ZoomLevel(2), update.Level)
	require.True(t, update.LevelChanged)

	require.Equal(t, ZoomLevel(2), c.Release())
	require.Equal(t, 15, SequenceInterval(DaySequence(c.Level())))
}

func TestGestureRejectsReentrantBegin(t *testing.T) {
	c := unitController(2)
	require.True(t, c.Begin(10))
	c.Move(8)
	c.Frame()
	display := c.DisplayZoom()

	// A second pointer-down mid-gesture is a no-op, not a re-anchor.
	require.False(t, c.Begin(500))
	c.Frame()
	require.Equal(t, display, c.DisplayZoom())
}

func TestGestureClampsAtRangeEnds(t *testing.T) {
	c := unitController(4)
	require.True(t, c.Begin(0))

	c.Move(-100) // far past the top of the range
	update := c.Frame()
	require.Equal(t, 4.0, update.Display)

	c.Move(100) // and far past the bottom
	update = c.Frame()
	require.Equal(t, 0.0, update.Display)
	require.Equal(t, ZoomLevel(0), c.Release())
}

func TestGestureMoveWithoutFrameDoesNotApply(t *testing.T) {
	c := unitController(2)
	require.True(t, c.Begin(0))

	// Many pointer moves between frames collapse into the latest target.
	for step := 0; step <= 100; step++ {
		c.Move(-float64(step) / 100)
	}
	require.Equal(t, 2.0, c.DisplayZoom(), "moves coalesce until the next frame")

	update := c.Frame()
	require.InDelta(t, 3.0, update.Display, 1e-9)
}

func TestGestureReleaseIdempotent(t *testing.T) {
	c := unitController(1)
	require.True(t, c.Begin(0))
	c.Move(-0.4)
	require.Equal(t, ZoomLevel(1), c.Release())

	// Stray release from a lingering listener changes nothing.
	require.Equal(t, ZoomLevel(1), c.Release())
	require.False(t, c.Dragging())
}

func TestGestureReleaseAppliesFinalMove(t *testing.T) {
	// Pointer-up can land after the last animation frame; the release must
	// still honor the final pointer position.
	c := unitController(0)
	require.True(t, c.Begin(0))
	c.Move(-2.6)
	require.Equal(t, ZoomLevel(3), c.Release())
}

func TestGestureSetLevelBlockedWhileDragging(t *testing.T) {
	c := unitController(2)
	require.True(t, c.SetLevel(4))
	require.Equal(t, ZoomLevel(4), c.Level())

	require.True(t, c.Begin(0))
	require.False(t, c.SetLevel(1))
	require.Equal(t, ZoomLevel(4), c.Level())
}
