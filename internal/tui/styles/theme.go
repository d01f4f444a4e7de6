package styles

import "github.com/charmbracelet/lipgloss"

// BaseColors defines global UI colors.
type BaseColors struct {
	Background string
	Foreground string
	Muted      string
	Accent     string
	Border     string
}

// GridColors defines colors for the time grid itself.
type GridColors struct {
	HourLabel  string // primary labels (hour marks)
	MinorLabel string // sub-hour labels at finer zoom
	SlotLine   string
	Now        string // now-indicator line
	ZoomHandle string
}

// TaskColors defines colors for task list rendering.
type TaskColors struct {
	Done       string
	Pending    string
	Attachment string
}

// ChromeColors defines non-content UI colors.
type ChromeColors struct {
	Header       string
	Footer       string
	Breadcrumb   string
	SelectedItem string
}

// BorderColors defines border colors for pane state.
type BorderColors struct {
	ActivePane   string
	InactivePane string
	Divider      string
}

// Theme defines the rota TUI style tokens.
type Theme struct {
	Name        string
	BorderStyle string // "rounded", "sharp", "double", "hidden"

	Base    BaseColors
	Grid    GridColors
	Task    TaskColors
	Chrome  ChromeColors
	Borders BorderColors
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

func (t Theme) baseStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Foreground)).Background(lipgloss.Color(t.Base.Background))
}

// MutedStyle renders de-emphasized text.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Muted))
}

// AccentStyle renders highlighted text.
func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Accent))
}

// HourLabelStyle renders primary slot labels.
func (t Theme) HourLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Grid.HourLabel)).Bold(true)
}

// MinorLabelStyle renders sub-hour slot labels.
func (t Theme) MinorLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Grid.MinorLabel))
}

// SlotLineStyle renders the horizontal slot separators.
func (t Theme) SlotLineStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Grid.SlotLine))
}

// NowStyle renders the current-time indicator.
func (t Theme) NowStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Grid.Now)).Bold(true)
}

// HeaderStyle renders the app header bar.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Header)).Bold(true)
}

// FooterStyle renders the key-hint footer.
func (t Theme) FooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Footer))
}

// SelectedStyle renders the selected list item or event.
func (t Theme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.SelectedItem)).Bold(true).Reverse(true)
}
