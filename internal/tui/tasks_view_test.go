package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/hmelgaard/rota/internal/models"
)

func newTestTasksView(t *testing.T) (*tasksView, *models.Event) {
	t.Helper()
	deps := newTestDeps(t)
	view := newTasksView(deps)
	event := seedEvent(t, deps)
	return view, event
}

func loadTasksView(t *testing.T, view *tasksView, eventID string) {
	t.Helper()
	cmd := view.SetEvent(eventID)
	require.NotNil(t, cmd)
	msg := cmd()
	data, ok := msg.(tasksDataMsg)
	require.True(t, ok)
	require.NoError(t, data.err)
	view.Update(msg)
}

func seedTaskTree(t *testing.T, view *tasksView, eventID string) (parent, child *models.Task) {
	t.Helper()
	ctx := context.Background()
	parent = &models.Task{EventID: eventID, Title: "Prepare agenda"}
	require.NoError(t, view.deps.Tasks.Create(ctx, parent))
	child = &models.Task{EventID: eventID, ParentID: parent.ID, Title: "Collect updates"}
	require.NoError(t, view.deps.Tasks.Create(ctx, child))
	return parent, child
}

func TestTasksViewLoadsTree(t *testing.T) {
	view, event := newTestTasksView(t)
	seedTaskTree(t, view, event.ID)

	loadTasksView(t, view, event.ID)

	require.Len(t, view.rows, 2)
	require.Equal(t, "Prepare agenda", view.rows[0].task.Title)
	require.Equal(t, 0, view.rows[0].depth)
	require.Equal(t, "Collect updates", view.rows[1].task.Title)
	require.Equal(t, 1, view.rows[1].depth)
}

func TestTasksViewToggleRoundTrip(t *testing.T) {
	view, event := newTestTasksView(t)
	parent, _ := seedTaskTree(t, view, event.ID)
	loadTasksView(t, view, event.ID)

	cmd := view.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	toggled, ok := cmd().(taskToggledMsg)
	require.True(t, ok)
	require.NoError(t, toggled.err)

	// the toggle triggers a refetch that shows the new state
	refetch := view.Update(toggled)
	require.NotNil(t, refetch)
	view.Update(refetch())
	require.True(t, view.rows[0].task.Completed)

	got, err := view.deps.Tasks.Get(context.Background(), parent.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)
}

func TestTasksViewTogglePublishesChange(t *testing.T) {
	view, event := newTestTasksView(t)
	seedTaskTree(t, view, event.ID)
	loadTasksView(t, view, event.ID)

	cmd := view.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	require.NoError(t, cmd().(taskToggledMsg).err)

	// the feed's appender journals the toggle
	changes, err := view.deps.Changes.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	require.Equal(t, models.ChangeTaskToggled, changes[0].Op)
	require.Contains(t, string(changes[0].Payload), "completed")
}

func TestTasksViewCursorMovement(t *testing.T) {
	view, event := newTestTasksView(t)
	seedTaskTree(t, view, event.ID)
	loadTasksView(t, view, event.ID)

	require.Equal(t, 0, view.cursor)
	view.Update(runeKey('j'))
	require.Equal(t, 1, view.cursor)
	view.Update(runeKey('j'))
	require.Equal(t, 1, view.cursor) // clamped at the last row
	view.Update(runeKey('k'))
	require.Equal(t, 0, view.cursor)
}

func TestTasksViewEscPopsView(t *testing.T) {
	view, _ := newTestTasksView(t)

	cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(popViewMsg)
	require.True(t, ok)
}

func TestTasksViewStaleDataDropped(t *testing.T) {
	view, event := newTestTasksView(t)
	view.SetEvent(event.ID)

	view.Update(tasksDataMsg{eventID: "someone-else", tasks: []*models.Task{{Title: "stray"}}})
	require.Empty(t, view.rows)
}

func TestTasksViewToggleFailureSurfaces(t *testing.T) {
	view, event := newTestTasksView(t)
	view.SetEvent(event.ID)

	// A failed toggle is logged, kept as loadErr, and does not refetch.
	require.Nil(t, view.Update(taskToggledMsg{eventID: event.ID, err: errors.New("db locked")}))
	require.Error(t, view.loadErr)
}

func TestTasksViewRendering(t *testing.T) {
	view, event := newTestTasksView(t)
	parent, _ := seedTaskTree(t, view, event.ID)
	loadTasksView(t, view, event.ID)

	_, err := view.deps.Tasks.Toggle(context.Background(), parent.ID)
	require.NoError(t, err)
	loadTasksView(t, view, event.ID)

	out := view.View(80, 24, ThemeDefault)
	require.Contains(t, out, "Standup prep")
	require.Contains(t, out, "[x] Prepare agenda")
	require.Contains(t, out, "[ ] Collect updates")
	require.Contains(t, out, "1/2 done")
}

func TestFlattenTasksDepthFirst(t *testing.T) {
	tree := []*models.Task{
		{Title: "a", Subtasks: []*models.Task{
			{Title: "a1"},
			{Title: "a2", Subtasks: []*models.Task{{Title: "a2i"}}},
		}},
		{Title: "b"},
	}

	rows := flattenTasks(tree)
	titles := make([]string, len(rows))
	depths := make([]int, len(rows))
	for i, r := range rows {
		titles[i] = r.task.Title
		depths[i] = r.depth
	}
	require.Equal(t, []string{"a", "a1", "a2", "a2i", "b"}, titles)
	require.Equal(t, []int{0, 1, 1, 2, 0}, depths)
}
