package styles

import (
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// EventColorPalette is a curated ANSI-256 palette used when an event's
// color class is unknown. Red slots are avoided; red is reserved for the
// now indicator.
var EventColorPalette = []string{
	"33", "39", "45", "69", "75", "81", "87", "99",
	"111", "117", "123", "147", "153", "159", "183", "189",
}

// tailwindColors maps the plan service's color classes (Tailwind
// background names) to ANSI-256 codes.
var tailwindColors = map[string]string{
	"bg-blue-500":    "33",
	"bg-sky-500":     "39",
	"bg-cyan-500":    "45",
	"bg-teal-500":    "37",
	"bg-green-500":   "41",
	"bg-emerald-500": "42",
	"bg-lime-500":    "112",
	"bg-yellow-500":  "220",
	"bg-amber-500":   "214",
	"bg-orange-500":  "208",
	"bg-purple-500":  "99",
	"bg-violet-500":  "135",
	"bg-indigo-500":  "63",
	"bg-pink-500":    "205",
	"bg-rose-500":    "211",
	"bg-slate-500":   "245",
	"bg-gray-500":    "245",
}

// EventColorMapper resolves deterministic per-event styles and caches them.
type EventColorMapper struct {
	palette []string

	mu         sync.RWMutex
	fgCache    map[string]lipgloss.Style
	bgCache    map[string]lipgloss.Style
	colorCache map[string]string
}

// NewEventColorMapper returns a deterministic mapper with default palette.
func NewEventColorMapper() *EventColorMapper {
	paletteCopy := make([]string, len(EventColorPalette))
	copy(paletteCopy, EventColorPalette)

	return &EventColorMapper{
		palette:    paletteCopy,
		fgCache:    make(map[string]lipgloss.Style, 32),
		bgCache:    make(map[string]lipgloss.Style, 32),
		colorCache: make(map[string]string, 32),
	}
}

// Foreground returns a cached foreground style for a color class.
func (m *EventColorMapper) Foreground(colorClass string) lipgloss.Style {
	key := normalizeColor(colorClass)

	m.mu.RLock()
	if style, ok := m.fgCache[key]; ok {
		m.mu.RUnlock()
		return style
	}
	m.mu.RUnlock()

	colorCode := m.ColorCode(key)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCode)).Bold(true)

	m.mu.Lock()
	m.fgCache[key] = style
	m.mu.Unlock()

	return style
}

// Background returns a cached background style for a color class.
func (m *EventColorMapper) Background(colorClass string) lipgloss.Style {
	key := normalizeColor(colorClass)

	m.mu.RLock()
	if style, ok := m.bgCache[key]; ok {
		m.mu.RUnlock()
		return style
	}
	m.mu.RUnlock()

	colorCode := m.ColorCode(key)
	fgCode := contrastingTextColor(colorCode)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(fgCode)).Background(lipgloss.Color(colorCode))

	m.mu.Lock()
	m.bgCache[key] = style
	m.mu.Unlock()

	return style
}

// ColorCode returns the ANSI-256 code selected for a color class. Known
// Tailwind classes map directly; anything else hashes into the palette so
// the same class always gets the same color.
func (m *EventColorMapper) ColorCode(colorClass string) string {
	key := normalizeColor(colorClass)

	m.mu.RLock()
	if colorCode, ok := m.colorCache[key]; ok {
		m.mu.RUnlock()
		return colorCode
	}
	m.mu.RUnlock()

	colorCode, ok := tailwindColors[key]
	if !ok {
		colorCode = m.palette[hashColorToPalette(key, len(m.palette))]
	}

	m.mu.Lock()
	m.colorCache[key] = colorCode
	m.mu.Unlock()

	return colorCode
}

func normalizeColor(colorClass string) string {
	normalized := strings.ToLower(strings.TrimSpace(colorClass))
	if normalized == "" {
		return "bg-blue-500"
	}
	return normalized
}

func hashColorToPalette(colorClass string, paletteLen int) int {
	if paletteLen == 0 {
		return 0
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(colorClass))
	return int(h.Sum32()) % paletteLen
}

// contrastingTextColor picks black or white text for a background code.
func contrastingTextColor(ansiCode string) string {
	code, err := strconv.Atoi(ansiCode)
	if err != nil {
		return "231"
	}

	// The 6x6x6 color cube starts at 16; brightness rises with each axis.
	if code >= 16 && code <= 231 {
		offset := code - 16
		r := offset / 36
		g := (offset % 36) / 6
		b := offset % 6
		if 2*r+4*g+b >= 12 {
			return "16"
		}
		return "231"
	}
	// Grayscale ramp.
	if code >= 232 {
		if code >= 244 {
			return "16"
		}
		return "231"
	}
	// Base 16 colors: treat the bright half as light.
	if code >= 9 {
		return "16"
	}
	return "231"
}
