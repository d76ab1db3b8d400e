package db

import (
	"testing"
	"time"

	"ourjourney/internal/capture"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// newTestEntry creates an entry with default values for testing.
func newTestEntry(id string, typ capture.EntryType, title string) *entry.Entry {
	now := time.Now().Unix()
	return &entry.Entry{
		ID:        id,
		Type:      typ,
		Title:     title,
		Category:  entry.DefaultCategory,
		Mood:      entry.DefaultMood,
		Status:    entry.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// stringPtr returns a pointer to the given string.
func stringPtr(s string) *string {
	return &s
}

func TestInsertAndGetByID(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	e := newTestEntry("01ABC123", capture.TypeDate, "Dinner at Luigi's")
	e.Content = "Anniversary dinner"
	e.TargetDate = stringPtr("2026-02-14")
	e.TargetTime = stringPtr("19:00")
	e.Location = stringPtr("Luigi's")
	e.Tags = []string{"anniversary", "dinner"}
	e.Author = stringPtr("alex")

	// Insert
	if err := Insert(db, e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// GetByID
	retrieved, err := GetByID(db, "01ABC123", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	// Verify fields
	if retrieved.ID != e.ID {
		t.Errorf("ID = %q, want %q", retrieved.ID, e.ID)
	}
	if retrieved.Type != capture.TypeDate {
		t.Errorf("Type = %q, want %q", retrieved.Type, capture.TypeDate)
	}
	if retrieved.Title != e.Title {
		t.Errorf("Title = %q, want %q", retrieved.Title, e.Title)
	}
	if retrieved.Content != e.Content {
		t.Errorf("Content = %q, want %q", retrieved.Content, e.Content)
	}
	if retrieved.TargetDate == nil || *retrieved.TargetDate != "2026-02-14" {
		t.Errorf("TargetDate = %v, want 2026-02-14", retrieved.TargetDate)
	}
	if retrieved.TargetTime == nil || *retrieved.TargetTime != "19:00" {
		t.Errorf("TargetTime = %v, want 19:00", retrieved.TargetTime)
	}
	if retrieved.Location == nil || *retrieved.Location != "Luigi's" {
		t.Errorf("Location = %v, want Luigi's", retrieved.Location)
	}
	if len(retrieved.Tags) != 2 || retrieved.Tags[0] != "anniversary" {
		t.Errorf("Tags = %v, want %v", retrieved.Tags, e.Tags)
	}
	if retrieved.Author == nil || *retrieved.Author != "alex" {
		t.Errorf("Author = %v, want alex", retrieved.Author)
	}
	if retrieved.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", retrieved.CompletedAt)
	}
}

func TestInsert_DuplicateID(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	e := newTestEntry("01DUP001", capture.TypeIdea, "First")
	if err := Insert(db, e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	dup := newTestEntry("01DUP001", capture.TypeIdea, "Second")
	err = Insert(db, dup)
	if !errors.Is(err, errors.ErrConflict) {
		t.Errorf("duplicate Insert error = %v, want CONFLICT", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	_, err = GetByID(db, "01MISSING", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID error = %v, want NOT_FOUND", err)
	}
}

func TestUpdateByID(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	e := newTestEntry("01UPD001", capture.TypeGoal, "Save for Japan trip")
	if err := Insert(db, e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	e.Title = "Save for Japan trip 2027"
	e.Status = entry.StatusCompleted
	e.Progress = 100
	completedAt := time.Now().Unix()
	e.CompletedAt = &completedAt

	if err := UpdateByID(db, e); err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	got, err := GetByID(db, "01UPD001", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Save for Japan trip 2027" {
		t.Errorf("Title = %q, want updated title", got.Title)
	}
	if got.Status != entry.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("Progress = %d, want 100", got.Progress)
	}
	if got.CompletedAt == nil || *got.CompletedAt != completedAt {
		t.Errorf("CompletedAt = %v, want %d", got.CompletedAt, completedAt)
	}
}

func TestUpdateByID_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	e := newTestEntry("01NOPE", capture.TypeIdea, "Ghost")
	err = UpdateByID(db, e)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateByID error = %v, want NOT_FOUND", err)
	}
}

func TestSoftDelete(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	e := newTestEntry("01DEL001", capture.TypeMemory, "Picnic in the park")
	if err := Insert(db, e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := SoftDelete(db, "01DEL001"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	// Hidden from normal reads
	_, err = GetByID(db, "01DEL001", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want NOT_FOUND", err)
	}

	// Still visible with includeDeleted
	got, err := GetByID(db, "01DEL001", true)
	if err != nil {
		t.Fatalf("GetByID includeDeleted failed: %v", err)
	}
	if got.DeletedAt == nil {
		t.Errorf("DeletedAt = nil, want set")
	}

	// Second delete is a not-found
	err = SoftDelete(db, "01DEL001")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second SoftDelete error = %v, want NOT_FOUND", err)
	}
}

func TestList_Filters(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	entries := []*entry.Entry{
		newTestEntry("01LIST01", capture.TypeGoal, "Goal one"),
		newTestEntry("01LIST02", capture.TypeGoal, "Goal two"),
		newTestEntry("01LIST03", capture.TypeMemory, "Memory one"),
	}
	entries[1].Status = entry.StatusCompleted
	entries[2].Category = "Trips"
	for _, e := range entries {
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	// Filter by type
	goalType := string(capture.TypeGoal)
	got, total, err := List(db, ListFilter{Type: &goalType, Limit: 50})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("type filter: got %d rows (total %d), want 2", len(got), total)
	}

	// Filter by status
	completed := entry.StatusCompleted
	got, total, err = List(db, ListFilter{Status: &completed, Limit: 50})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != "01LIST02" {
		t.Errorf("status filter: got %v (total %d), want 01LIST02", got, total)
	}

	// Filter by category
	category := "Trips"
	got, total, err = List(db, ListFilter{Category: &category, Limit: 50})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != "01LIST03" {
		t.Errorf("category filter: got %v (total %d), want 01LIST03", got, total)
	}
}

func TestList_PaginationAndDeleted(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	base := time.Now().Unix()
	for i := 0; i < 5; i++ {
		e := newTestEntry("01PAGE0"+string(rune('1'+i)), capture.TypeIdea, "Idea")
		e.CreatedAt = base + int64(i)
		e.UpdatedAt = e.CreatedAt
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := SoftDelete(db, "01PAGE03"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	got, total, err := List(db, ListFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4 (deleted excluded)", total)
	}
	if len(got) != 2 {
		t.Fatalf("page size = %d, want 2", len(got))
	}
	// Newest first
	if got[0].ID != "01PAGE05" || got[1].ID != "01PAGE04" {
		t.Errorf("page order = %s, %s, want 01PAGE05, 01PAGE04", got[0].ID, got[1].ID)
	}

	got, _, err = List(db, ListFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "01PAGE02" {
		t.Errorf("second page starts at %s, want 01PAGE02", got[0].ID)
	}
}

func TestCalendarRange(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	dinner := newTestEntry("01CAL001", capture.TypeDate, "Dinner")
	dinner.TargetDate = stringPtr("2026-03-10")
	dinner.TargetTime = stringPtr("19:00")

	brunch := newTestEntry("01CAL002", capture.TypeDate, "Brunch")
	brunch.TargetDate = stringPtr("2026-03-10")
	brunch.TargetTime = stringPtr("11:00")

	plan := newTestEntry("01CAL003", capture.TypeEvent, "Weekend trip")
	plan.TargetDate = stringPtr("2026-03-28")

	goal := newTestEntry("01CAL004", capture.TypeGoal, "Save money")
	goal.TargetDate = stringPtr("2026-03-15")

	outOfRange := newTestEntry("01CAL005", capture.TypeDate, "Next month")
	outOfRange.TargetDate = stringPtr("2026-04-02")

	for _, e := range []*entry.Entry{dinner, brunch, plan, goal, outOfRange} {
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := CalendarRange(db, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("CalendarRange failed: %v", err)
	}

	// Goal excluded (not schedulable), out-of-range excluded;
	// same-day rows ordered by time
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].ID != "01CAL002" || got[1].ID != "01CAL001" || got[2].ID != "01CAL003" {
		t.Errorf("order = %s, %s, %s, want brunch, dinner, trip", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestUpcomingSchedulable(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	past := newTestEntry("01UPC001", capture.TypeDate, "Last week")
	past.TargetDate = stringPtr("2026-01-05")
	future := newTestEntry("01UPC002", capture.TypeEvent, "Concert")
	future.TargetDate = stringPtr("2026-06-20")
	for _, e := range []*entry.Entry{past, future} {
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := UpcomingSchedulable(db, "2026-02-01")
	if err != nil {
		t.Fatalf("UpcomingSchedulable failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "01UPC002" {
		t.Errorf("got %v, want only 01UPC002", got)
	}
}

func TestInsightQueries(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	now := time.Now().Unix()
	since := now - 30*24*60*60

	recent := newTestEntry("01INS001", capture.TypeGoal, "Recent goal")
	recent.Status = entry.StatusCompleted
	completedAt := now - 100
	recent.CompletedAt = &completedAt

	old := newTestEntry("01INS002", capture.TypeGoal, "Old goal")
	old.CreatedAt = since - 1000
	old.UpdatedAt = old.CreatedAt

	memory := newTestEntry("01INS003", capture.TypeMemory, "Beach day")
	feeling := newTestEntry("01INS004", capture.TypeFeeling, "Feeling grateful")

	for _, e := range []*entry.Entry{recent, old, memory, feeling} {
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	counts, err := CountByTypeSince(db, since)
	if err != nil {
		t.Fatalf("CountByTypeSince failed: %v", err)
	}
	if counts.Goals != 1 {
		t.Errorf("Goals = %d, want 1 (old goal outside window)", counts.Goals)
	}
	if counts.Memories != 1 || counts.Feelings != 1 || counts.Total != 3 {
		t.Errorf("counts = %+v, want 1 memory, 1 feeling, 3 total", counts)
	}

	goals, err := CompletedGoalsSince(db, since, 5)
	if err != nil {
		t.Fatalf("CompletedGoalsSince failed: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != "01INS001" {
		t.Errorf("completed goals = %v, want 01INS001", goals)
	}

	memories, err := RecentMemoriesSince(db, since, 5)
	if err != nil {
		t.Fatalf("RecentMemoriesSince failed: %v", err)
	}
	if len(memories) != 1 || memories[0].ID != "01INS003" {
		t.Errorf("recent memories = %v, want 01INS003", memories)
	}
}

func TestStreamForExport(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	base := time.Now().Unix()
	a := newTestEntry("01EXP001", capture.TypeIdea, "First")
	a.CreatedAt = base
	b := newTestEntry("01EXP002", capture.TypeGoal, "Second")
	b.CreatedAt = base + 1
	for _, e := range []*entry.Entry{a, b} {
		e.UpdatedAt = e.CreatedAt
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	rows, err := StreamForExport(db, nil, false)
	if err != nil {
		t.Fatalf("StreamForExport failed: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		e, err := ScanEntryFromRows(rows)
		if err != nil {
			t.Fatalf("ScanEntryFromRows failed: %v", err)
		}
		ids = append(ids, e.ID)
	}
	// Oldest first for stable export output
	if len(ids) != 2 || ids[0] != "01EXP001" || ids[1] != "01EXP002" {
		t.Errorf("export order = %v, want [01EXP001 01EXP002]", ids)
	}
}

func TestPurgeDeleted(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	keep := newTestEntry("01PRG001", capture.TypeIdea, "Kept")
	gone := newTestEntry("01PRG002", capture.TypeIdea, "Purged")
	for _, e := range []*entry.Entry{keep, gone} {
		if err := Insert(db, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := SoftDelete(db, "01PRG002"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	count, err := PurgeDeleted(db, nil)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if count != 1 {
		t.Errorf("purged %d, want 1", count)
	}

	// Purged row is gone even with includeDeleted
	_, err = GetByID(db, "01PRG002", true)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID after purge error = %v, want NOT_FOUND", err)
	}
	// Live row untouched
	if _, err := GetByID(db, "01PRG001", false); err != nil {
		t.Errorf("live entry missing after purge: %v", err)
	}
}

func TestRitualUpsertAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	score := 8
	r := &entry.Ritual{
		ID:        "01RIT001",
		WeekOf:    "2026-02-08",
		Gratitude: stringPtr("Sunday morning coffee together"),
		MoodScore: &score,
	}

	saved, err := UpsertRitual(db, r)
	if err != nil {
		t.Fatalf("UpsertRitual failed: %v", err)
	}
	if saved.ID != "01RIT001" {
		t.Errorf("ID = %q, want 01RIT001", saved.ID)
	}
	if saved.Gratitude == nil || *saved.Gratitude != *r.Gratitude {
		t.Errorf("Gratitude = %v, want %q", saved.Gratitude, *r.Gratitude)
	}

	// Second save for the same week updates in place, keeps the id
	score2 := 9
	again := &entry.Ritual{
		ID:         "01RIT002",
		WeekOf:     "2026-02-08",
		Gratitude:  stringPtr("The long walk on Saturday"),
		Challenges: stringPtr("Busy work week"),
		MoodScore:  &score2,
	}
	saved, err = UpsertRitual(db, again)
	if err != nil {
		t.Fatalf("second UpsertRitual failed: %v", err)
	}
	if saved.ID != "01RIT001" {
		t.Errorf("ID after upsert = %q, want original 01RIT001", saved.ID)
	}
	if saved.Challenges == nil || *saved.Challenges != "Busy work week" {
		t.Errorf("Challenges = %v, want updated value", saved.Challenges)
	}
	if saved.MoodScore == nil || *saved.MoodScore != 9 {
		t.Errorf("MoodScore = %v, want 9", saved.MoodScore)
	}

	got, err := GetRitualByWeek(db, "2026-02-08")
	if err != nil {
		t.Fatalf("GetRitualByWeek failed: %v", err)
	}
	if got.Gratitude == nil || *got.Gratitude != "The long walk on Saturday" {
		t.Errorf("Gratitude = %v, want updated value", got.Gratitude)
	}

	_, err = GetRitualByWeek(db, "2026-02-15")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing week error = %v, want NOT_FOUND", err)
	}
}
