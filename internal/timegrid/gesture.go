package timegrid

// GestureState identifies the zoom controller's drag state.
type GestureState int

// Controller states.
const (
	GestureIdle GestureState = iota
	GestureDragging
)

// DefaultSensitivity converts vertical pointer travel into zoom units: one
// full level per two unscaled slot heights of travel, anchored to the
// default level's multiplier so the feel tracks the configured base height.
func DefaultSensitivity(baseHeight float64) float64 {
	if baseHeight <= 0 {
		baseHeight = BaseSlotHeight
	}
	return 1 / (2 * baseHeight * slotMultipliers[DefaultZoomLevel])
}

// Controller owns the zoom gesture state machine. Pointer handlers write
// only the latest target display zoom; a frame-cadence caller applies it
// through Frame. Move events arriving faster than the display refreshes
// therefore coalesce into one layout per frame instead of one per event.
//
// The controller is single-goroutine state, owned by the UI loop. Idle, the
// display zoom mirrors the committed level exactly.
type Controller struct {
	level   ZoomLevel
	display float64
	state   GestureState

	startY      float64
	startZoom   float64
	target      float64
	sensitivity float64
}

// NewController starts idle at the given committed level. A non-positive
// sensitivity selects the default for BaseSlotHeight.
func NewController(level ZoomLevel, sensitivity float64) *Controller {
	level = level.Clamp()
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity(BaseSlotHeight)
	}
	return &Controller{
		level:       level,
		display:     float64(level),
		target:      float64(level),
		sensitivity: sensitivity,
	}
}

// State returns the current gesture state.
func (c *Controller) State() GestureState { return c.state }

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool { return c.state == GestureDragging }

// Level returns the committed (or mid-gesture live) discrete level.
func (c *Controller) Level() ZoomLevel { return c.level }

// DisplayZoom returns the continuous zoom driving slot-height interpolation.
func (c *Controller) DisplayZoom() float64 { return c.display }

// Begin starts a drag anchored at the pointer's vertical coordinate. A
// pointer-down while a gesture is already in progress is rejected: Begin
// reports false and changes nothing.
func (c *Controller) Begin(y float64) bool {
	if c.state == GestureDragging {
		return false
	}
	c.state = GestureDragging
	c.startY = y
	c.startZoom = c.display
	c.target = c.display
	return true
}

// Move records the latest pointer position; upward travel zooms in. The new
// display zoom takes effect on the next Frame call, never immediately.
func (c *Controller) Move(y float64) {
	if c.state != GestureDragging {
		return
	}
	c.target = ClampDisplayZoom(c.startZoom + (c.startY-y)*c.sensitivity)
}

// FrameUpdate is the state one animation frame applied.
type FrameUpdate struct {
	Display float64
	Level   ZoomLevel

	// LevelChanged is set when the rounded display zoom crossed to a new
	// integer this frame. The caller must regenerate the slot sequence
	// before placing events, so geometry is read after it is written.
	LevelChanged bool
}

// Frame applies the most recent pointer target. While dragging, the rounded
// display zoom is committed live to the working level, so the discrete
// label set updates progressively during the drag while the height keeps
// interpolating smoothly. Idle frames report the settled state unchanged.
func (c *Controller) Frame() FrameUpdate {
	if c.state == GestureDragging {
		c.display = c.target
		if lvl := RoundZoom(c.display); lvl != c.level {
			c.level = lvl
			return FrameUpdate{Display: c.display, Level: lvl, LevelChanged: true}
		}
	}
	return FrameUpdate{Display: c.display, Level: c.level}
}

// Release ends the gesture: the latest target is applied, the display zoom
// snaps to its nearest integer, and that becomes the committed level, which
// the caller persists. Pointer-up anywhere in the document finalizes; there
// is no cancel path. Releasing while idle is a no-op, so teardown wired to
// global pointer listeners stays idempotent.
func (c *Controller) Release() ZoomLevel {
	if c.state == GestureDragging {
		c.level = RoundZoom(c.target)
		c.display = float64(c.level)
		c.target = c.display
		c.state = GestureIdle
	}
	return c.level
}

// SetLevel commits a level directly, for keyboard zoom. It reports false
// without touching state while a drag is in progress.
func (c *Controller) SetLevel(level ZoomLevel) bool {
	if c.state == GestureDragging {
		return false
	}
	c.level = level.Clamp()
	c.display = float64(c.level)
	c.target = c.display
	return true
}
