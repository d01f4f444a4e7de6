package logging

import (
	"bytes"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func TestComponentTagsEntries(t *testing.T) {
	buf := captureLogs(t)

	logger := Component("db")
	logger.Info().Msg("migrated")

	if got := buf.String(); !strings.Contains(got, `"component":"db"`) {
		t.Fatalf("missing component field: %s", got)
	}
}

func TestWithEventTagsEntries(t *testing.T) {
	buf := captureLogs(t)

	logger := WithEvent("event-42")
	logger.Warn().Msg("toggle task failed")

	if got := buf.String(); !strings.Contains(got, `"event_id":"event-42"`) {
		t.Fatalf("missing event_id field: %s", got)
	}
}

func TestWithDayTagsEntries(t *testing.T) {
	buf := captureLogs(t)

	logger := WithDay(3)
	logger.Warn().Msg("grid fetch failed")

	if got := buf.String(); !strings.Contains(got, `"day":3`) {
		t.Fatalf("missing day field: %s", got)
	}
}
