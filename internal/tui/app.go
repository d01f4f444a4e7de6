// Package tui is the interactive timetable: a weekly grid with five zoom
// levels, a draggable zoom handle, per-event task lists, and a change log.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmelgaard/rota/internal/changefeed"
	"github.com/hmelgaard/rota/internal/db"
	"github.com/hmelgaard/rota/internal/tui/styles"
)

const defaultRefreshInterval = 30 * time.Second

type Theme string

const (
	ThemeDefault      Theme = "default"
	ThemeHighContrast Theme = "high-contrast"
)

type ViewID string

const (
	ViewGrid  ViewID = "grid"
	ViewTasks ViewID = "tasks"
	ViewLog   ViewID = "log"
)

var viewSwitchKeys = map[string]ViewID{
	"G": ViewGrid,
	"L": ViewLog,
}

// Config controls TUI behavior.
type Config struct {
	Theme           string
	RefreshInterval time.Duration

	// BaseSlotHeight and SlotGap are the grid geometry in abstract units;
	// the grid view maps them to terminal rows.
	BaseSlotHeight float64
	SlotGap        float64

	// ZoomSensitivity scales drag rows to zoom delta. Zero derives the
	// default from BaseSlotHeight.
	ZoomSensitivity float64

	ShowNowIndicator bool
}

// Deps is everything the views pull data through.
type Deps struct {
	Events   *db.EventRepository
	Tasks    *db.TaskRepository
	Settings *db.SettingsRepository
	Changes  *db.ChangeRepository
	Feed     *changefeed.Feed
}

type Model struct {
	cfg  Config
	deps Deps

	theme Theme

	width    int
	height   int
	showHelp bool

	viewStack []ViewID
	views     map[ViewID]viewModel
}

type viewModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int, theme Theme) string
}

type pushViewMsg struct {
	id ViewID
}

type popViewMsg struct{}

type openTasksMsg struct {
	eventID string
}

func pushViewCmd(id ViewID) tea.Cmd {
	return func() tea.Msg {
		return pushViewMsg{id: id}
	}
}

func popViewCmd() tea.Cmd {
	return func() tea.Msg {
		return popViewMsg{}
	}
}

func openTasksCmd(eventID string) tea.Cmd {
	return func() tea.Msg {
		return openTasksMsg{eventID: eventID}
	}
}

func NewModel(cfg Config, deps Deps) (*Model, error) {
	normalized, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:       normalized,
		deps:      deps,
		theme:     Theme(normalized.Theme),
		viewStack: []ViewID{ViewGrid},
		views:     make(map[ViewID]viewModel),
	}
	m.initViews()
	return m, nil
}

func Run(cfg Config, deps Deps) error {
	model, err := NewModel(cfg, deps)
	if err != nil {
		return err
	}
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}

func (m *Model) Close() {
	for _, view := range m.views {
		if closer, ok := view.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

func (m *Model) Init() tea.Cmd {
	if view := m.activeView(); view != nil {
		return view.Init()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case openTasksMsg:
		if view := m.views[ViewTasks]; view != nil {
			if setter, ok := view.(interface {
				SetEvent(string) tea.Cmd
			}); ok {
				m.pushView(ViewTasks)
				return m, setter.SetEvent(typed.eventID)
			}
		}
		return m, nil
	case pushViewMsg:
		m.pushView(typed.id)
		if view := m.activeView(); view != nil {
			return m, view.Init()
		}
		return m, nil
	case popViewMsg:
		m.popView()
		if view := m.activeView(); view != nil {
			return m, view.Init()
		}
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(typed); handled {
			return m, cmd
		}
	}

	if active := m.activeView(); active != nil {
		return m, active.Update(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	active := m.activeView()
	if active == nil {
		return "no active view"
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := active.View(m.width, contentHeight, m.theme)
	if m.showHelp {
		body = m.renderHelp(contentHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit, true
	case "?":
		m.showHelp = !m.showHelp
		return nil, true
	}

	if next, ok := viewSwitchKeys[msg.String()]; ok {
		m.pushView(next)
		if view := m.activeView(); view != nil {
			return view.Init(), true
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) activeView() viewModel {
	return m.views[m.activeViewID()]
}

func (m *Model) activeViewID() ViewID {
	if len(m.viewStack) == 0 {
		return ViewGrid
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *Model) pushView(id ViewID) {
	if id == "" {
		return
	}
	if _, ok := m.views[id]; !ok {
		return
	}
	if m.activeViewID() == id {
		return
	}
	m.viewStack = append(m.viewStack, id)
}

func (m *Model) popView() {
	if len(m.viewStack) <= 1 {
		return
	}
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}

func (m *Model) initViews() {
	m.views[ViewGrid] = newGridView(m.cfg, m.deps)
	m.views[ViewTasks] = newTasksView(m.deps)
	m.views[ViewLog] = newLogView(m.deps)
}

func (m *Model) renderHeader() string {
	theme := themeFor(m.theme)
	crumbs := make([]string, 0, len(m.viewStack))
	for _, id := range m.viewStack {
		crumbs = append(crumbs, string(id))
	}
	title := theme.HeaderStyle().Render("rota")
	breadcrumb := theme.MutedStyle().Render(strings.Join(crumbs, " > "))
	return title + "  " + breadcrumb
}

func (m *Model) renderFooter() string {
	theme := themeFor(m.theme)
	hints := "q quit · ? help · G grid · L log"
	return theme.FooterStyle().Render(hints)
}

func (m *Model) renderHelp(height int) string {
	theme := themeFor(m.theme)
	lines := []string{
		"grid",
		"  ←/→ h/l      previous / next day",
		"  ↑/↓ k/j      scroll",
		"  tab          cycle events",
		"  enter        open event tasks",
		"  [/]          previous / next plan week",
		"  +/-          zoom in / out",
		"  1-5          jump to zoom level",
		"  drag gutter  continuous zoom",
		"tasks",
		"  space        toggle task",
		"  esc          back",
		"log",
		"  esc          back",
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return theme.MutedStyle().Render(strings.Join(lines, "\n"))
}

func themeFor(name Theme) styles.Theme {
	if theme, ok := styles.Themes[string(name)]; ok {
		return theme
	}
	return styles.DefaultTheme
}

func (c Config) normalize() (Config, error) {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.BaseSlotHeight <= 0 {
		c.BaseSlotHeight = 40
	}
	if c.SlotGap < 0 {
		c.SlotGap = 0
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = string(ThemeDefault)
	}
	switch Theme(c.Theme) {
	case ThemeDefault, ThemeHighContrast:
	default:
		return Config{}, fmt.Errorf("invalid theme %q", c.Theme)
	}
	return c, nil
}
