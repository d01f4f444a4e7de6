package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmelgaard/rota/internal/models"
)

func sampleEvents() []*models.Event {
	return []*models.Event{
		{
			ID:    "e1",
			Day:   models.Monday,
			Start: "9:00 AM",
			End:   "10:30 AM",
			Title: "Algorithms",
			Color: "bg-blue-500",
			Tasks: []*models.Task{
				{Title: "read chapter 3", Position: 0},
				{Title: "solve exercises", Position: 1, Completed: true},
			},
		},
		{
			ID:    "e2",
			Day:   models.Friday,
			Start: "11:00 PM",
			End:   "12:00 AM",
			Title: "Review",
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(sampleEvents())))

	doc, err := ReadJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, DocumentVersion, doc.Version)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "Algorithms", doc.Events[0].Title)
	require.Len(t, doc.Events[0].Tasks, 2)
	assert.True(t, doc.Events[0].Tasks[1].Completed)
	assert.Equal(t, "12:00 AM", doc.Events[1].End)
}

func TestReadJSONRejectsUnversioned(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"events":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no version")
}

func TestReadJSONRejectsFutureVersion(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"version":99,"events":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestReadJSONRejectsInvalidEvent(t *testing.T) {
	payload := `{
		"version": 1,
		"events": [
			{"day": 1, "startTime": "3:00 PM", "endTime": "2:00 PM", "title": "backwards"}
		]
	}`
	_, err := ReadJSON(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backwards")
}

func TestReadJSONRejectsUntitledTask(t *testing.T) {
	payload := `{
		"version": 1,
		"events": [
			{"day": 1, "startTime": "9:00 AM", "endTime": "10:00 AM", "title": "ok",
			 "tasks": [{"title": ""}]}
		]
	}`
	_, err := ReadJSON(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}
