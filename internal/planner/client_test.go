package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmelgaard/rota/internal/config"
	"github.com/hmelgaard/rota/internal/models"
)

func validRequest() *Request {
	return &Request{
		Skill:        "Go",
		Duration:     "4 weeks",
		HoursPerWeek: 6,
		Difficulty:   DifficultyBeginner,
		FocusAreas:   []string{"concurrency"},
	}
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	missing := validRequest()
	missing.Skill = ""
	require.Error(t, missing.Validate())

	badDifficulty := validRequest()
	badDifficulty.Difficulty = "impossible"
	require.Error(t, badDifficulty.Validate())

	badHours := validRequest()
	badHours.HoursPerWeek = 200
	require.Error(t, badHours.Validate())
}

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate-plan", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Go", req.Skill)

		plan := Plan{
			Skill:      "Go",
			TotalWeeks: 1,
			WeeklyPlans: []*WeeklyPlan{
				{
					Week:               1,
					Title:              "Foundations",
					LearningObjectives: []string{"syntax", "tooling"},
					Events: []*models.Event{
						{
							Day:   models.Monday,
							Start: "9:00 AM",
							End:   "10:30 AM",
							Title: "Go basics",
							Color: "bg-blue-500",
							Tasks: []*models.Task{
								{Title: "install toolchain", Position: 0},
							},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(plan))
	}))
	defer server.Close()

	client := NewClient(config.PlannerConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})

	plan, err := client.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Go", plan.Skill)
	assert.Equal(t, 1, plan.TotalWeeks)
	require.Len(t, plan.WeeklyPlans, 1)
	require.Len(t, plan.WeeklyPlans[0].Events, 1)

	event := plan.WeeklyPlans[0].Events[0]
	assert.Equal(t, "Go basics", event.Title)
	assert.Equal(t, "9:00 AM", event.Start)
	require.Len(t, event.Tasks, 1)
	assert.Equal(t, "install toolchain", event.Tasks[0].Title)
}

func TestClientGenerateServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"model overloaded"}`))
	}))
	defer server.Close()

	client := NewClient(config.PlannerConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := client.Generate(context.Background(), validRequest())
	require.Error(t, err)

	var serviceErr *ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, http.StatusServiceUnavailable, serviceErr.StatusCode)
	assert.Contains(t, serviceErr.Error(), "model overloaded")
}

func TestClientGenerateEmptyPlanRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"skill":"Go","totalWeeks":0,"weeklyPlans":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.PlannerConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := client.Generate(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no weekly plans")
}

func TestClientGenerateInvalidRequestShortCircuits(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(config.PlannerConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	bad := validRequest()
	bad.HoursPerWeek = 0
	_, err := client.Generate(context.Background(), bad)
	require.Error(t, err)
	assert.False(t, called, "invalid request must not reach the service")
}

func TestPlanAllEventsStampsWeeks(t *testing.T) {
	plan := &Plan{
		WeeklyPlans: []*WeeklyPlan{
			{Week: 1, Events: []*models.Event{{Title: "a"}}},
			{Week: 2, Events: []*models.Event{{Title: "b"}, {Title: "c", Week: 7}}},
		},
	}

	events := plan.AllEvents()
	require.Len(t, events, 3)
	assert.Equal(t, 1, events[0].Week)
	assert.Equal(t, 2, events[1].Week)
	// An explicit week from the service is kept.
	assert.Equal(t, 7, events[2].Week)

	assert.Len(t, plan.EventsForWeek(2), 2)
	assert.Nil(t, plan.EventsForWeek(9))
}
