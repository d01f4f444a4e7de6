package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hmelgaard/rota/internal/db"
	"github.com/hmelgaard/rota/internal/timegrid"
)

// setTestHome isolates config, context, and database paths under a temp dir.
func setTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("ROTA_DATABASE_PATH", filepath.Join(home, "rota.db"))
	return home
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd("test")
	root.SetArgs(args)
	return root.Execute()
}

func openStore(t *testing.T, home string) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(home, "rota.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestEventsAddAndRm(t *testing.T) {
	home := setTestHome(t)

	err := runCommand(t, "events", "add",
		"--day", "monday",
		"--start", "9:00 AM",
		"--end", "10:30 AM",
		"--title", "Linear algebra",
		"--color", "bg-purple-500",
	)
	if err != nil {
		t.Fatalf("events add: %v", err)
	}

	database := openStore(t, home)
	events, err := db.NewEventRepository(database).ListByDay(context.Background(), 1)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Title != "Linear algebra" {
		t.Fatalf("unexpected title %q", events[0].Title)
	}

	if err := runCommand(t, "events", "rm", events[0].ID); err != nil {
		t.Fatalf("events rm: %v", err)
	}
	remaining, err := db.NewEventRepository(database).ListByDay(context.Background(), 1)
	if err != nil {
		t.Fatalf("list after rm: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty day after rm, got %d events", len(remaining))
	}
}

func TestEventsListWeekFilter(t *testing.T) {
	home := setTestHome(t)

	for week, title := range map[string]string{"1": "Week one session", "2": "Week two session"} {
		err := runCommand(t, "events", "add",
			"--day", "tuesday",
			"--start", "9:00 AM",
			"--end", "10:00 AM",
			"--title", title,
			"--week", week,
		)
		if err != nil {
			t.Fatalf("events add week %s: %v", week, err)
		}
	}

	database := openStore(t, home)
	repo := db.NewEventRepository(database)

	week2, err := repo.ListByWeek(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListByWeek: %v", err)
	}
	if len(week2) != 1 || week2[0].Title != "Week two session" {
		t.Fatalf("unexpected week-2 events: %+v", week2)
	}

	if err := runCommand(t, "events", "list", "--week", "1"); err != nil {
		t.Fatalf("events list --week: %v", err)
	}
	if err := runCommand(t, "events", "list", "--day", "tuesday", "--week", "2"); err != nil {
		t.Fatalf("events list --day --week: %v", err)
	}
}

func TestEventsAddRejectsInvalidTimes(t *testing.T) {
	setTestHome(t)

	err := runCommand(t, "events", "add",
		"--day", "monday",
		"--start", "10:00 AM",
		"--end", "9:00 AM",
		"--title", "Backwards",
	)
	if err == nil {
		t.Fatal("expected inverted time span to be rejected")
	}
}

func TestZoomSetAndGet(t *testing.T) {
	home := setTestHome(t)

	if err := runCommand(t, "zoom", "5"); err != nil {
		t.Fatalf("zoom set: %v", err)
	}

	database := openStore(t, home)
	level, err := db.NewSettingsRepository(database).ZoomLevel(context.Background())
	if err != nil {
		t.Fatalf("read zoom: %v", err)
	}
	if level != timegrid.MaxZoomLevel {
		t.Fatalf("expected level %d, got %d", timegrid.MaxZoomLevel, level)
	}

	if err := runCommand(t, "zoom", "9"); err == nil {
		t.Fatal("expected out-of-range zoom to fail")
	}
}

func TestResolveDay(t *testing.T) {
	setTestHome(t)

	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "sunday", want: 0},
		{in: "Friday", want: 5},
		{in: "3", want: 3},
		{in: "7", wantErr: true},
		{in: "noday", wantErr: true},
		{in: "", wantErr: true}, // no context selected
	}
	for _, tc := range cases {
		got, err := resolveDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("resolveDay(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("resolveDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestUseDayFeedsResolveDay(t *testing.T) {
	setTestHome(t)

	if err := runCommand(t, "use", "day", "thursday"); err != nil {
		t.Fatalf("use day: %v", err)
	}
	day, err := resolveDay("")
	if err != nil {
		t.Fatalf("resolveDay from context: %v", err)
	}
	if day != 4 {
		t.Fatalf("expected Thursday (4), got %d", day)
	}

	if err := runCommand(t, "use", "clear"); err != nil {
		t.Fatalf("use clear: %v", err)
	}
	if _, err := resolveDay(""); err == nil {
		t.Fatal("expected error after clearing context")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	home := setTestHome(t)

	err := runCommand(t, "events", "add",
		"--day", "tuesday",
		"--start", "2:00 PM",
		"--end", "3:00 PM",
		"--title", "Workshop",
	)
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	exportPath := filepath.Join(home, "timetable.json")
	if err := runCommand(t, "export", "json", "--out", exportPath); err != nil {
		t.Fatalf("export json: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Workshop") {
		t.Fatalf("export missing event: %s", data)
	}

	if err := runCommand(t, "import", "--replace", exportPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	database := openStore(t, home)
	events, err := db.NewEventRepository(database).ListAll(context.Background())
	if err != nil {
		t.Fatalf("list after import: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Workshop" {
		t.Fatalf("unexpected events after import: %+v", events)
	}
}

func TestWriteTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"ID", "TITLE"}, [][]string{
		{"a1", "short"},
		{"b2", "a longer title"},
	})
	if err != nil {
		t.Fatalf("writeTable: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "TITLE") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	titleCol := strings.Index(lines[0], "TITLE")
	if strings.Index(lines[1], "short") != titleCol {
		t.Fatalf("columns misaligned:\n%s", buf.String())
	}
}

func TestWriteTableMeasuresDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"DAY", "TITLE"}, [][]string{
		{"月曜", "Linear algebra"},
		{"tue", "Workshop"},
	})
	if err != nil {
		t.Fatalf("writeTable: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Wide runes occupy two cells; byte-length sizing would misalign.
	titleCol := strings.Index(lines[0], "TITLE")
	if strings.Index(lines[2], "Workshop") != titleCol {
		t.Fatalf("columns misaligned:\n%s", buf.String())
	}
}
