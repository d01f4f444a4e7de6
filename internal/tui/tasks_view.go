package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmelgaard/rota/internal/logging"
	"github.com/hmelgaard/rota/internal/models"
	"github.com/hmelgaard/rota/internal/tui/styles"
)

// tasksView shows one event's checklist as an indented tree. Rows are a
// flattened projection of the tree so cursor movement is plain index math.
type tasksView struct {
	deps Deps

	eventID string
	event   *models.Event
	tasks   []*models.Task
	rows    []taskRow
	cursor  int
	scroll  int
	loadErr error
}

type taskRow struct {
	task  *models.Task
	depth int
}

type tasksDataMsg struct {
	eventID string
	event   *models.Event
	tasks   []*models.Task
	err     error
}

type taskToggledMsg struct {
	eventID string
	err     error
}

func newTasksView(deps Deps) *tasksView {
	return &tasksView{deps: deps}
}

func (v *tasksView) Init() tea.Cmd {
	if v.eventID == "" {
		return nil
	}
	return v.fetchCmd(v.eventID)
}

// SetEvent retargets the view at another event and reloads. The app calls
// this before pushing the view.
func (v *tasksView) SetEvent(eventID string) tea.Cmd {
	v.eventID = eventID
	v.event = nil
	v.tasks = nil
	v.rows = nil
	v.cursor = 0
	v.scroll = 0
	v.loadErr = nil
	return v.fetchCmd(eventID)
}

func (v *tasksView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case tasksDataMsg:
		if typed.eventID != v.eventID {
			return nil
		}
		v.loadErr = typed.err
		if typed.err == nil {
			v.event = typed.event
			v.tasks = typed.tasks
			v.rows = flattenTasks(typed.tasks)
			if v.cursor >= len(v.rows) {
				v.cursor = 0
			}
		}
		return nil
	case taskToggledMsg:
		if typed.err != nil {
			v.loadErr = typed.err
			logger := logging.WithEvent(typed.eventID)
			logger.Warn().Err(typed.err).Msg("toggle task failed")
			return nil
		}
		return v.fetchCmd(typed.eventID)
	case tea.KeyMsg:
		return v.handleKey(typed)
	default:
		return nil
	}
}

func (v *tasksView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		return nil
	case " ", "x":
		if v.cursor < len(v.rows) {
			return v.toggleCmd(v.rows[v.cursor].task.ID)
		}
		return nil
	case "R":
		return v.fetchCmd(v.eventID)
	case "esc", "backspace":
		return popViewCmd()
	}
	return nil
}

func (v *tasksView) fetchCmd(eventID string) tea.Cmd {
	events := v.deps.Events
	tasks := v.deps.Tasks
	return func() tea.Msg {
		if events == nil || tasks == nil || eventID == "" {
			return tasksDataMsg{eventID: eventID}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		event, err := events.Get(ctx, eventID)
		if err != nil {
			return tasksDataMsg{eventID: eventID, err: err}
		}
		tree, err := tasks.TreeByEvent(ctx, eventID)
		if err != nil {
			return tasksDataMsg{eventID: eventID, err: err}
		}
		return tasksDataMsg{eventID: eventID, event: event, tasks: tree}
	}
}

func (v *tasksView) toggleCmd(taskID string) tea.Cmd {
	eventID := v.eventID
	tasks := v.deps.Tasks
	feed := v.deps.Feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		completed, err := tasks.Toggle(ctx, taskID)
		if err != nil {
			return taskToggledMsg{eventID: eventID, err: err}
		}
		if feed != nil {
			payload, _ := json.Marshal(map[string]bool{"completed": completed})
			feed.Publish(ctx, &models.Change{
				Op:         models.ChangeTaskToggled,
				EntityType: models.EntityTask,
				EntityID:   taskID,
				Payload:    payload,
			})
		}
		return taskToggledMsg{eventID: eventID}
	}
}

func flattenTasks(tasks []*models.Task) []taskRow {
	var rows []taskRow
	var walk func(list []*models.Task, depth int)
	walk = func(list []*models.Task, depth int) {
		for _, t := range list {
			rows = append(rows, taskRow{task: t, depth: depth})
			walk(t.Subtasks, depth+1)
		}
	}
	walk(tasks, 0)
	return rows
}

func (v *tasksView) View(width, height int, themeName Theme) string {
	theme := themeFor(themeName)
	if v.eventID == "" {
		return theme.MutedStyle().Render("no event selected")
	}
	if v.loadErr != nil {
		return theme.NowStyle().Render("load error: " + v.loadErr.Error())
	}

	var b strings.Builder
	if v.event != nil {
		header := fmt.Sprintf("%s  %s – %s", v.event.Title, v.event.Start, v.event.End)
		b.WriteString(theme.AccentStyle().Render(truncateLine(header, width)))
		b.WriteString("\n")
		done, total := countDone(v.rows)
		b.WriteString(theme.MutedStyle().Render(fmt.Sprintf("%d/%d done", done, total)))
		b.WriteString("\n\n")
	}

	if len(v.rows) == 0 {
		b.WriteString(theme.MutedStyle().Render("no tasks"))
		return b.String()
	}

	listHeight := height - 4
	if listHeight < 1 {
		listHeight = 1
	}
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+listHeight {
		v.scroll = v.cursor - listHeight + 1
	}

	end := v.scroll + listHeight
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.scroll; i < end; i++ {
		b.WriteString(v.renderRow(i, width, theme))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *tasksView) renderRow(i, width int, theme styles.Theme) string {
	row := v.rows[i]
	task := row.task

	box := "[ ]"
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Task.Pending))
	if task.Completed {
		box = "[x]"
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Task.Done)).Strikethrough(true)
	}

	line := strings.Repeat("  ", row.depth) + box + " " + task.Title
	if n := len(task.Attachments); n > 0 {
		line += fmt.Sprintf(" (%d att)", n)
	}
	line = truncateLine(line, width-2)

	if i == v.cursor {
		return theme.SelectedStyle().Render("› " + line)
	}
	return "  " + style.Render(line)
}

func countDone(rows []taskRow) (done, total int) {
	for _, r := range rows {
		total++
		if r.task.Completed {
			done++
		}
	}
	return done, total
}
