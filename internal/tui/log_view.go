package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hmelgaard/rota/internal/models"
	"github.com/hmelgaard/rota/internal/tui/styles"
)

const logFetchLimit = 100

// logView is a read-only tail of the change journal, newest first.
type logView struct {
	deps Deps

	changes []*models.Change
	scroll  int
	loadErr error
}

type logDataMsg struct {
	changes []*models.Change
	err     error
}

func newLogView(deps Deps) *logView {
	return &logView{deps: deps}
}

func (v *logView) Init() tea.Cmd {
	return v.fetchCmd()
}

func (v *logView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case logDataMsg:
		v.loadErr = typed.err
		if typed.err == nil {
			v.changes = typed.changes
		}
		return nil
	case tea.KeyMsg:
		switch typed.String() {
		case "up", "k":
			if v.scroll > 0 {
				v.scroll--
			}
		case "down", "j":
			v.scroll++
		case "R":
			return v.fetchCmd()
		case "esc", "backspace":
			return popViewCmd()
		}
		return nil
	default:
		return nil
	}
}

func (v *logView) fetchCmd() tea.Cmd {
	repo := v.deps.Changes
	return func() tea.Msg {
		if repo == nil {
			return logDataMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		changes, err := repo.ListRecent(ctx, logFetchLimit)
		return logDataMsg{changes: changes, err: err}
	}
}

func (v *logView) View(width, height int, themeName Theme) string {
	theme := themeFor(themeName)
	if v.loadErr != nil {
		return theme.NowStyle().Render("load error: " + v.loadErr.Error())
	}
	if len(v.changes) == 0 {
		return theme.MutedStyle().Render("no changes recorded")
	}

	maxScroll := len(v.changes) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}

	end := v.scroll + height
	if end > len(v.changes) {
		end = len(v.changes)
	}

	var b strings.Builder
	for _, change := range v.changes[v.scroll:end] {
		b.WriteString(truncateLine(v.renderChange(change, theme), width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *logView) renderChange(change *models.Change, theme styles.Theme) string {
	stamp := change.Timestamp.Local().Format(time.Stamp)
	entity := fmt.Sprintf("%s/%s", change.EntityType, shortEntityID(change.EntityID))
	return theme.MutedStyle().Render(stamp+"  ") +
		theme.AccentStyle().Render(fmt.Sprintf("%-16s", change.Op)) +
		theme.MutedStyle().Render("  "+entity)
}

func shortEntityID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
