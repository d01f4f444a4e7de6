package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hmelgaard/rota/internal/changefeed"
	"github.com/hmelgaard/rota/internal/logging"
	"github.com/hmelgaard/rota/internal/models"
	"github.com/hmelgaard/rota/internal/timegrid"
	"github.com/hmelgaard/rota/internal/tui/styles"
)

const (
	// frameInterval paces zoom-drag relayout at roughly 60fps. Pointer
	// moves between frames only overwrite the drag target; the grid
	// re-renders once per frame no matter how fast the mouse reports.
	frameInterval = 16 * time.Millisecond

	clockInterval = time.Second

	gutterWidth  = 10
	gridFeedSub  = "tui-grid"
	fetchTimeout = 5 * time.Second
)

type gridView struct {
	cfg    Config
	deps   Deps
	logger zerolog.Logger

	colors *styles.EventColorMapper

	controller  *timegrid.Controller
	sensitivity float64
	level       timegrid.ZoomLevel
	dragGen     int

	day       int
	week      int // 0 shows every week; >0 narrows to one plan week
	events    []*models.Event
	selEvent  int
	loadErr   error
	lastFetch time.Time

	scroll int
	now    int // minutes since midnight

	viewHeight int

	dirty        atomic.Bool
	subscribed   bool
	clockRunning bool
}

type gridDataMsg struct {
	day    int
	week   int
	events []*models.Event
	err    error
}

type gridZoomLoadedMsg struct {
	level timegrid.ZoomLevel
}

type gridFrameMsg struct {
	gen int
}

type gridClockMsg struct{}

type gridZoomSavedMsg struct {
	err error
}

func newGridView(cfg Config, deps Deps) *gridView {
	sensitivity := cfg.ZoomSensitivity
	if sensitivity <= 0 {
		sensitivity = timegrid.DefaultSensitivity(cfg.BaseSlotHeight)
	}
	level := timegrid.DefaultZoomLevel

	return &gridView{
		cfg:         cfg,
		deps:        deps,
		logger:      logging.Component("tui"),
		colors:      styles.NewEventColorMapper(),
		controller:  timegrid.NewController(level, sensitivity),
		sensitivity: sensitivity,
		level:       level,
		day:         int(time.Now().Weekday()),
		now:         minutesNow(),
	}
}

func (v *gridView) Close() {
	if v.subscribed && v.deps.Feed != nil {
		_ = v.deps.Feed.Unsubscribe(gridFeedSub)
		v.subscribed = false
	}
}

func (v *gridView) Init() tea.Cmd {
	if v.deps.Feed != nil && !v.subscribed {
		err := v.deps.Feed.Subscribe(gridFeedSub, changefeed.Filter{
			EntityTypes: []models.EntityType{models.EntityEvent, models.EntityTask, models.EntityTimetable},
		}, func(*models.Change) {
			// Handlers run off the bubbletea loop; the clock tick picks
			// the flag up and refetches.
			v.dirty.Store(true)
		})
		v.subscribed = err == nil
	}

	cmds := []tea.Cmd{v.loadZoomCmd(), v.fetchCmd()}
	if !v.clockRunning {
		// Init runs again every time the view returns to the top of the
		// stack; only the first one may start the tick loop.
		v.clockRunning = true
		cmds = append(cmds, tea.Tick(clockInterval, func(time.Time) tea.Msg { return gridClockMsg{} }))
	}
	return tea.Batch(cmds...)
}

func (v *gridView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case gridDataMsg:
		if typed.day != v.day || typed.week != v.week {
			return nil // stale fetch from a day or week we already left
		}
		v.loadErr = typed.err
		if typed.err != nil {
			logger := logging.WithDay(typed.day)
			logger.Warn().Err(typed.err).Msg("grid fetch failed")
			return nil
		}
		v.events = typed.events
		v.clampSelection()
		return nil
	case gridZoomLoadedMsg:
		v.level = typed.level
		v.controller = timegrid.NewController(typed.level, v.sensitivity)
		return nil
	case gridClockMsg:
		v.now = minutesNow()
		cmds := []tea.Cmd{
			tea.Tick(clockInterval, func(time.Time) tea.Msg { return gridClockMsg{} }),
		}
		stale := v.cfg.RefreshInterval > 0 && time.Since(v.lastFetch) >= v.cfg.RefreshInterval
		if v.dirty.Swap(false) || stale {
			cmds = append(cmds, v.fetchCmd())
		}
		return tea.Batch(cmds...)
	case gridFrameMsg:
		return v.handleFrame(typed)
	case gridZoomSavedMsg:
		if typed.err != nil {
			v.logger.Warn().Err(typed.err).Msg("persist zoom level failed")
		}
		return nil
	case tea.MouseMsg:
		return v.handleMouse(typed)
	case tea.KeyMsg:
		return v.handleKey(typed)
	default:
		return nil
	}
}

func (v *gridView) handleFrame(msg gridFrameMsg) tea.Cmd {
	if msg.gen != v.dragGen || v.controller.State() != timegrid.GestureDragging {
		return nil
	}

	update := v.controller.Frame()
	var saveCmd tea.Cmd
	if update.LevelChanged {
		v.level = update.Level
		saveCmd = v.saveZoomCmd(update.Level)
	}

	frameCmd := v.frameTick(msg.gen)
	if saveCmd != nil {
		return tea.Batch(frameCmd, saveCmd)
	}
	return frameCmd
}

func (v *gridView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonWheelUp {
			v.scrollBy(-2)
			return nil
		}
		if msg.Button == tea.MouseButtonWheelDown {
			v.scrollBy(2)
			return nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.X < gutterWidth {
			if v.controller.Begin(float64(msg.Y)) {
				v.dragGen++
				return v.frameTick(v.dragGen)
			}
		}
		return nil
	case tea.MouseActionMotion:
		if v.controller.State() == timegrid.GestureDragging {
			v.controller.Move(float64(msg.Y))
		}
		return nil
	case tea.MouseActionRelease:
		if v.controller.State() != timegrid.GestureDragging {
			return nil
		}
		level := v.controller.Release()
		v.dragGen++ // invalidate in-flight frame ticks
		v.level = level
		return v.saveZoomCmd(level)
	default:
		return nil
	}
}

func (v *gridView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		v.setDay((v.day + 6) % 7)
		return v.fetchCmd()
	case "right", "l":
		v.setDay((v.day + 1) % 7)
		return v.fetchCmd()
	case "up", "k":
		v.scrollBy(-1)
		return nil
	case "down", "j":
		v.scrollBy(1)
		return nil
	case "pgup":
		v.scrollBy(-v.viewHeight)
		return nil
	case "pgdown":
		v.scrollBy(v.viewHeight)
		return nil
	case "tab":
		if len(v.events) > 0 {
			v.selEvent = (v.selEvent + 1) % len(v.events)
		}
		return nil
	case "shift+tab":
		if len(v.events) > 0 {
			v.selEvent = (v.selEvent + len(v.events) - 1) % len(v.events)
		}
		return nil
	case "enter":
		if v.selEvent < len(v.events) {
			return openTasksCmd(v.events[v.selEvent].ID)
		}
		return nil
	case "+", "=":
		return v.setLevel(v.level + 1)
	case "-", "_":
		return v.setLevel(v.level - 1)
	case "1", "2", "3", "4", "5":
		return v.setLevel(timegrid.ZoomLevel(msg.String()[0] - '1'))
	case "[":
		if v.week > 0 {
			v.week--
			v.selEvent = 0
			return v.fetchCmd()
		}
		return nil
	case "]":
		v.week++
		v.selEvent = 0
		return v.fetchCmd()
	case "R":
		return v.fetchCmd()
	}
	return nil
}

// setLevel applies a discrete zoom jump. Ignored mid-drag; the gesture
// owns the zoom until it releases.
func (v *gridView) setLevel(level timegrid.ZoomLevel) tea.Cmd {
	level = level.Clamp()
	if !v.controller.SetLevel(level) {
		return nil
	}
	if level == v.level {
		return nil
	}
	v.level = level
	return v.saveZoomCmd(level)
}

func (v *gridView) setDay(day int) {
	v.day = day
	v.selEvent = 0
	v.scroll = 0
}

func (v *gridView) scrollBy(delta int) {
	v.scroll += delta
	if v.scroll < 0 {
		v.scroll = 0
	}
}

func (v *gridView) clampSelection() {
	if v.selEvent >= len(v.events) {
		v.selEvent = 0
	}
}

func (v *gridView) frameTick(gen int) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return gridFrameMsg{gen: gen} })
}

func (v *gridView) fetchCmd() tea.Cmd {
	v.lastFetch = time.Now()
	day, week := v.day, v.week
	repo := v.deps.Events
	return func() tea.Msg {
		if repo == nil {
			return gridDataMsg{day: day, week: week}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		var events []*models.Event
		var err error
		if week > 0 {
			events, err = repo.ListByDayWeek(ctx, day, week)
		} else {
			events, err = repo.ListByDay(ctx, day)
		}
		return gridDataMsg{day: day, week: week, events: events, err: err}
	}
}

func (v *gridView) loadZoomCmd() tea.Cmd {
	repo := v.deps.Settings
	return func() tea.Msg {
		if repo == nil {
			return gridZoomLoadedMsg{level: timegrid.DefaultZoomLevel}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		level, err := repo.ZoomLevel(ctx)
		if err != nil {
			return gridZoomLoadedMsg{level: timegrid.DefaultZoomLevel}
		}
		return gridZoomLoadedMsg{level: level}
	}
}

func (v *gridView) saveZoomCmd(level timegrid.ZoomLevel) tea.Cmd {
	repo := v.deps.Settings
	feed := v.deps.Feed
	return func() tea.Msg {
		if repo == nil {
			return gridZoomSavedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := repo.SetZoomLevel(ctx, level); err != nil {
			return gridZoomSavedMsg{err: err}
		}
		if feed != nil {
			feed.Publish(ctx, &models.Change{
				Op:         models.ChangeZoomCommitted,
				EntityType: models.EntitySettings,
				EntityID:   "grid.zoom_level",
			})
		}
		return gridZoomSavedMsg{}
	}
}

func minutesNow() int {
	now := time.Now()
	return now.Hour()*60 + now.Minute()
}

// rowsPerSlot maps the continuous slot height to whole terminal rows. The
// committed base height renders as five rows; drag zoom interpolates
// between the discrete row counts.
func (v *gridView) rowsPerSlot() int {
	height := timegrid.SlotHeight(v.controller.DisplayZoom(), v.cfg.BaseSlotHeight)
	rows := int(height*5/v.cfg.BaseSlotHeight + 0.5)
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (v *gridView) View(width, height int, themeName Theme) string {
	theme := themeFor(themeName)
	v.viewHeight = height
	if width <= 0 || height <= 0 {
		return "loading..."
	}

	seq := timegrid.DaySequence(v.level)
	slotRows := v.rowsPerSlot()
	lines := v.renderDay(width, seq, slotRows, theme)

	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}

	end := v.scroll + height
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[v.scroll:end]

	status := v.renderStatus(width, theme)
	body := strings.Join(visible, "\n")
	return status + "\n" + body
}

func (v *gridView) renderStatus(width int, theme styles.Theme) string {
	dayName := models.DayNames[v.day]
	interval := v.level.Interval()

	left := theme.AccentStyle().Render(dayName)
	if v.week > 0 {
		left += theme.AccentStyle().Render(fmt.Sprintf(" wk%d", v.week))
	}
	zoom := fmt.Sprintf(" %dm/slot  zoom %d/5", interval, int(v.level)+1)
	if v.controller.State() == timegrid.GestureDragging {
		zoom += fmt.Sprintf(" (%.2f)", v.controller.DisplayZoom())
	}
	line := left + theme.MutedStyle().Render(zoom)
	if v.loadErr != nil {
		line += theme.NowStyle().Render("  load error")
	}
	return truncateLine(line, width)
}

// renderDay builds the full scrollable day column: a time gutter on the
// left and the event lane on the right.
func (v *gridView) renderDay(width int, seq []timegrid.TimeLabel, slotRows int, theme styles.Theme) []string {
	slots := len(seq) - 1
	if slots < 1 {
		return nil
	}
	totalRows := slots * slotRows
	laneWidth := width - gutterWidth - 1
	if laneWidth < 8 {
		laneWidth = 8
	}

	gutter := make([]string, totalRows)
	lane := make([]string, totalRows)
	laneStyles := make([]lipgloss.Style, totalRows)
	base := lipgloss.NewStyle()

	for i := 0; i < slots; i++ {
		label := timegrid.FormatLabel(seq[i], v.level)
		style := theme.MinorLabelStyle()
		if seq[i].MinuteOfHour() == 0 {
			style = theme.HourLabelStyle()
		}
		top := i * slotRows
		gutter[top] = style.Render(padLabel(label))
		for r := 1; r < slotRows; r++ {
			gutter[top+r] = padLabel("")
		}
	}
	for i := range lane {
		lane[i] = ""
		laneStyles[i] = base
	}

	v.paintEvents(lane, laneStyles, slotRows, seq, laneWidth, theme)
	v.paintNow(gutter, lane, laneStyles, slotRows, seq, laneWidth, theme)

	divider := theme.SlotLineStyle().Render("│")
	lines := make([]string, totalRows)
	for i := range lines {
		content := lane[i]
		if len(content) > laneWidth {
			content = content[:laneWidth]
		}
		lines[i] = gutter[i] + divider + laneStyles[i].Render(padRight(content, laneWidth))
	}
	return lines
}

// paintEvents lays events into the lane. An event whose labels are not in
// the current sequence is skipped for this frame; it reappears as soon as
// a level that carries its labels is committed.
func (v *gridView) paintEvents(lane []string, laneStyles []lipgloss.Style, slotRows int, seq []timegrid.TimeLabel, laneWidth int, theme styles.Theme) {
	metrics := timegrid.Metrics{
		SlotHeight: float64(slotRows),
		Gap:        0,
		MinHeight:  1,
	}

	for i, event := range v.events {
		start, err := event.StartLabel()
		if err != nil {
			continue
		}
		end, err := event.EndLabel()
		if err != nil {
			continue
		}

		placement, ok := timegrid.PlaceEvent(start, end, seq, metrics)
		if !ok {
			continue
		}

		top := int(placement.Top + 0.5)
		rows := int(placement.Height + 0.5)
		if rows < 1 {
			rows = 1
		}

		style := v.colors.Background(event.Color)
		selected := i == v.selEvent
		for r := 0; r < rows && top+r < len(lane); r++ {
			text := ""
			switch r {
			case 0:
				text = " " + event.Title
				if selected {
					text = "▌" + event.Title
				}
			case 1:
				text = " " + event.Start + " – " + event.End
			case 2:
				if event.Location != "" {
					text = " " + event.Location
				}
			}
			lane[top+r] = text
			if selected {
				laneStyles[top+r] = theme.SelectedStyle()
			} else {
				laneStyles[top+r] = style
			}
		}
	}
}

// paintNow draws the current-time line. Outside the sequence window the
// indicator simply does not render.
func (v *gridView) paintNow(gutter, lane []string, laneStyles []lipgloss.Style, slotRows int, seq []timegrid.TimeLabel, laneWidth int, theme styles.Theme) {
	if !v.cfg.ShowNowIndicator {
		return
	}
	indicator, ok := timegrid.PlaceNowIndicator(v.now, seq)
	if !ok {
		return
	}

	row := indicator.SlotIndex*slotRows + int(indicator.Fraction*float64(slotRows))
	if row < 0 || row >= len(lane) {
		return
	}

	label := timegrid.TimeLabel(v.now).String()
	gutter[row] = theme.NowStyle().Render(padLabel(label))
	if lane[row] == "" {
		lane[row] = strings.Repeat("─", minInt(laneWidth, 24))
		laneStyles[row] = theme.NowStyle()
	}
}

func padLabel(label string) string {
	if len(label) > gutterWidth-1 {
		label = label[:gutterWidth-1]
	}
	return fmt.Sprintf("%*s ", gutterWidth-1, label)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncateLine(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return s[:width]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
