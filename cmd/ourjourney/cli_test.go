package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ourjourney/internal/config"
	"ourjourney/internal/db"
	"ourjourney/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests
	return cfg
}

// runCLI runs the app with the given argv and returns captured stdout.
func runCLI(t *testing.T, database *sql.DB, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	app := newCLIApp(database, cfg)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"ourjourney"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestParseTags tests the parseTags helper function.
func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single tag",
			input:    "foo",
			expected: []string{"foo"},
		},
		{
			name:     "multiple tags",
			input:    "foo,bar,baz",
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "tags with spaces",
			input:    " foo , bar , baz ",
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "empty tags filtered",
			input:    "foo,,bar,",
			expected: []string{"foo", "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTags(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d tags, got %d", len(tt.expected), len(result))
				return
			}
			for i, tag := range result {
				if tag != tt.expected[i] {
					t.Errorf("expected tag[%d]=%q, got %q", i, tt.expected[i], tag)
				}
			}
		})
	}
}

// TestParseDuration tests the parseDuration helper function.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{
			name:     "valid days",
			input:    "7d",
			expected: 7,
		},
		{
			name:     "zero days",
			input:    "0d",
			expected: 0,
		},
		{
			name:        "negative days",
			input:       "-7d",
			expectError: true,
		},
		{
			name:        "no suffix",
			input:       "7",
			expectError: true,
		},
		{
			name:        "wrong suffix",
			input:       "7h",
			expectError: true,
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDuration(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

// TestCLICapture tests the capture command.
func TestCLICapture(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	out, err := runCLI(t, database, cfg,
		"capture", "--author=sam", "--tags=food", "Dinner", "at", "Luigi's", "tomorrow", "at", "7pm")
	if err != nil {
		t.Fatalf("capture command failed: %v", err)
	}

	var output ops.CaptureOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Entry.ID == "" {
		t.Error("expected non-empty ID")
	}
	if output.Entry.Type != "date" {
		t.Errorf("expected type=date, got %s", output.Entry.Type)
	}
	if output.SwitchView != "calendar" {
		t.Errorf("expected switch_view=calendar, got %s", output.SwitchView)
	}
}

// TestCLICapture_Empty tests that capture without text fails.
func TestCLICapture_Empty(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := runCLI(t, database, testConfig(), "capture")
	if err == nil {
		t.Fatal("expected error for capture without text")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("expected INVALID_REQUEST error, got: %v", err)
	}
}

// TestCLIAddAndShow tests the add and show commands.
func TestCLIAddAndShow(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	out, err := runCLI(t, database, cfg,
		"add", "--type=event", "--title=Concert", "--date=2026-10-03", "--time=20:00", "--location=Arena")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	var added ops.AddOutput
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if added.Entry.TargetDate == nil || *added.Entry.TargetDate != "2026-10-03" {
		t.Errorf("unexpected target_date: %v", added.Entry.TargetDate)
	}

	showOut, err := runCLI(t, database, cfg, "show", added.Entry.ID)
	if err != nil {
		t.Fatalf("show command failed: %v", err)
	}

	var fetched ops.FetchOutput
	if err := json.Unmarshal([]byte(showOut), &fetched); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, showOut)
	}
	if fetched.Title != "Concert" {
		t.Errorf("expected title=Concert, got %s", fetched.Title)
	}
}

// TestCLIAdd_UnknownType tests that add rejects unknown types.
func TestCLIAdd_UnknownType(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := runCLI(t, database, testConfig(), "add", "--type=reminder", "--title=Nope")
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), "INVALID_TYPE") {
		t.Errorf("expected INVALID_TYPE error, got: %v", err)
	}
}

// TestCLIListAndUpdate tests the list and update commands.
func TestCLIListAndUpdate(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	var goalID string
	for _, title := range []string{"Learn salsa", "Visit Kyoto"} {
		out, err := runCLI(t, database, cfg, "add", "--type=goal", "--title="+title)
		if err != nil {
			t.Fatalf("add command failed: %v", err)
		}
		var added ops.AddOutput
		if err := json.Unmarshal([]byte(out), &added); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		goalID = added.Entry.ID
	}

	listOut, err := runCLI(t, database, cfg, "list", "--type=goal")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var listed ops.ListOutput
	if err := json.Unmarshal([]byte(listOut), &listed); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(listed.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(listed.Entries))
	}
	if listed.Pagination.Total != 2 {
		t.Errorf("expected total=2, got %d", listed.Pagination.Total)
	}

	updateOut, err := runCLI(t, database, cfg,
		"update", "--status=completed", "--progress=100", goalID)
	if err != nil {
		t.Fatalf("update command failed: %v", err)
	}
	var updated ops.UpdateOutput
	if err := json.Unmarshal([]byte(updateOut), &updated); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if updated.Entry.Status != "completed" {
		t.Errorf("expected status=completed, got %s", updated.Entry.Status)
	}
	if updated.Entry.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

// TestCLIDeleteAndPurge tests the delete and purge commands.
func TestCLIDeleteAndPurge(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	out, err := runCLI(t, database, cfg, "add", "--type=idea", "--title=Pottery class")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}
	var added ops.AddOutput
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	deleteOut, err := runCLI(t, database, cfg, "delete", added.Entry.ID)
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	var deleted ops.DeleteOutput
	if err := json.Unmarshal([]byte(deleteOut), &deleted); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if !deleted.Deleted {
		t.Error("expected deleted=true")
	}

	purgeOut, err := runCLI(t, database, cfg, "purge")
	if err != nil {
		t.Fatalf("purge command failed: %v", err)
	}
	var purged ops.PurgeOutput
	if err := json.Unmarshal([]byte(purgeOut), &purged); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if purged.Purged != 1 {
		t.Errorf("expected purged=1, got %d", purged.Purged)
	}
}

// TestCLICalendar tests month and day modes of the calendar command.
func TestCLICalendar(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	if _, err := runCLI(t, database, cfg,
		"add", "--type=date", "--title=Picnic", "--date=2026-06-20"); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	monthOut, err := runCLI(t, database, cfg, "calendar", "--year=2026", "--month=6")
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}
	var month ops.CalendarMonthOutput
	if err := json.Unmarshal([]byte(monthOut), &month); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(month.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(month.Entries))
	}

	dayOut, err := runCLI(t, database, cfg, "calendar", "--date=2026-06-20")
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}
	var day ops.CalendarDayOutput
	if err := json.Unmarshal([]byte(dayOut), &day); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(day.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(day.Entries))
	}
}

// TestCLIRitual tests show and save modes of the ritual command.
func TestCLIRitual(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	// No answers saved yet
	out, err := runCLI(t, database, cfg, "ritual")
	if err != nil {
		t.Fatalf("ritual command failed: %v", err)
	}
	var current ops.RitualCurrentOutput
	if err := json.Unmarshal([]byte(out), &current); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if current.Ritual != nil {
		t.Error("expected no ritual before first save")
	}

	// Any answer flag switches to save mode
	saveOut, err := runCLI(t, database, cfg,
		"ritual", "--gratitude=Slow mornings", "--mood-score=9")
	if err != nil {
		t.Fatalf("ritual save failed: %v", err)
	}
	var saved ops.RitualSaveOutput
	if err := json.Unmarshal([]byte(saveOut), &saved); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if saved.Ritual.Gratitude == nil || *saved.Ritual.Gratitude != "Slow mornings" {
		t.Errorf("unexpected gratitude: %v", saved.Ritual.Gratitude)
	}

	out, err = runCLI(t, database, cfg, "ritual")
	if err != nil {
		t.Fatalf("ritual command failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &current); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if current.Ritual == nil {
		t.Error("expected saved ritual")
	}
}

// TestCLIExport tests the export command.
func TestCLIExport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	if _, err := runCLI(t, database, cfg,
		"add", "--type=memory", "--title=Beach sunset"); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "journal.jsonl")
	out, err := runCLI(t, database, cfg, "export", "--path="+exportPath)
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var exported ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if exported.Count != 1 {
		t.Errorf("expected count=1, got %d", exported.Count)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

// TestCLIInsights tests the insights command.
func TestCLIInsights(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig()

	if _, err := runCLI(t, database, cfg,
		"add", "--type=feeling", "--title=Grateful today"); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	out, err := runCLI(t, database, cfg, "insights")
	if err != nil {
		t.Fatalf("insights command failed: %v", err)
	}

	var insights ops.InsightsOutput
	if err := json.Unmarshal([]byte(out), &insights); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if insights.Counts.Feelings != 1 {
		t.Errorf("expected feelings=1, got %d", insights.Counts.Feelings)
	}
	if insights.WindowDays != ops.InsightsWindowDays {
		t.Errorf("expected window_days=%d, got %d", ops.InsightsWindowDays, insights.WindowDays)
	}
}

// TestIsCLIMode tests CLI vs MCP mode detection.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args is MCP mode",
			args:     []string{"ourjourney"},
			expected: false,
		},
		{
			name:     "known subcommand is CLI mode",
			args:     []string{"ourjourney", "capture"},
			expected: true,
		},
		{
			name:     "serve is CLI mode",
			args:     []string{"ourjourney", "serve"},
			expected: true,
		},
		{
			name:     "help flag is CLI mode",
			args:     []string{"ourjourney", "--help"},
			expected: true,
		},
		{
			name:     "unknown arg is not CLI mode",
			args:     []string{"ourjourney", "bogus"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isCLIMode(); got != tt.expected {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.expected)
			}
		})
	}
}
