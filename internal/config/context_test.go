package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hmelgaard/rota/internal/models"
)

func TestContextSetDayClearsEvent(t *testing.T) {
	ctx := &Context{}
	ctx.SetEvent("e1", "Algorithms")
	if !ctx.HasEvent() {
		t.Fatal("expected event to be set")
	}

	ctx.SetDay(models.Wednesday)
	if ctx.Day != "wednesday" {
		t.Errorf("expected day wednesday, got %q", ctx.Day)
	}
	if ctx.HasEvent() {
		t.Error("changing day should drop the event selection")
	}

	day, err := ctx.DayOrdinal()
	if err != nil {
		t.Fatalf("DayOrdinal: %v", err)
	}
	if day != models.Wednesday {
		t.Errorf("expected ordinal %d, got %d", models.Wednesday, day)
	}
}

func TestParseDayName(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"sunday", models.Sunday, false},
		{"Monday", models.Monday, false},
		{"SATURDAY", models.Saturday, false},
		{"someday", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDayName(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDayName(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDayName(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDayName(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestContextString(t *testing.T) {
	ctx := &Context{}
	if ctx.String() != "(no context set)" {
		t.Errorf("empty context: %q", ctx.String())
	}

	ctx.SetDay(models.Friday)
	ctx.SetEvent("0123456789abcdef", "")
	got := ctx.String()
	if got != "day:friday event:01234567" {
		t.Errorf("unexpected context string: %q", got)
	}
}

func TestContextStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "context.yaml")
	store := NewContextStore(path)

	// Missing file loads empty.
	ctx, err := store.Load()
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if !ctx.IsEmpty() {
		t.Fatal("expected empty context for missing file")
	}

	ctx.SetDay(models.Tuesday)
	ctx.SetEvent("e1", "Gym")
	if err := store.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Day != "tuesday" || loaded.EventID != "e1" || loaded.EventTitle != "Gym" {
		t.Fatalf("unexpected loaded context: %+v", loaded)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected context file to be removed")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear of missing file should be a no-op: %v", err)
	}
}
