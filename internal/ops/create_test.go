package ops

import (
	"testing"

	"ourjourney/internal/capture"
	"ourjourney/internal/db"
	"ourjourney/internal/errors"
)

// stringPtr returns a pointer to the given string.
func stringPtr(s string) *string {
	return &s
}

// intPtr returns a pointer to the given int.
func intPtr(n int) *int {
	return &n
}

func TestAdd(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer database.Close()

	out, err := Add(database, AddInput{
		Type:       "date",
		Title:      "Anniversary dinner",
		Content:    "Book the corner table",
		Category:   stringPtr("Dates"),
		TargetDate: stringPtr("2026-02-14"),
		TargetTime: stringPtr("19:00"),
		Location:   stringPtr("Luigi's"),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if out.Entry.Type != capture.TypeDate {
		t.Errorf("Type = %q, want date", out.Entry.Type)
	}
	if out.Entry.Category != "Dates" {
		t.Errorf("Category = %q, want Dates", out.Entry.Category)
	}
	if out.Entry.ID == "" {
		t.Error("ID is empty, want ULID")
	}

	got, err := db.GetByID(database, out.Entry.ID, false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Location == nil || *got.Location != "Luigi's" {
		t.Errorf("Location = %v, want Luigi's", got.Location)
	}
}

func TestAdd_Validation(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer database.Close()

	tests := []struct {
		name     string
		input    AddInput
		wantCode errors.ErrorCode
	}{
		{
			name:     "missing title",
			input:    AddInput{Type: "idea", Title: "  "},
			wantCode: errors.ErrInvalidRequest,
		},
		{
			name:     "unknown type",
			input:    AddInput{Type: "wish", Title: "A pony"},
			wantCode: errors.ErrInvalidType,
		},
		{
			name:     "bad date",
			input:    AddInput{Type: "date", Title: "Dinner", TargetDate: stringPtr("02/14/2026")},
			wantCode: errors.ErrInvalidRequest,
		},
		{
			name:     "bad time",
			input:    AddInput{Type: "date", Title: "Dinner", TargetTime: stringPtr("7pm")},
			wantCode: errors.ErrInvalidRequest,
		},
		{
			name:     "progress out of range",
			input:    AddInput{Type: "goal", Title: "Save", Progress: intPtr(150)},
			wantCode: errors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Add(database, tt.input)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Add error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestAdd_CaseInsensitiveType(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer database.Close()

	out, err := Add(database, AddInput{Type: " Goal ", Title: "Run a marathon"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if out.Entry.Type != capture.TypeGoal {
		t.Errorf("Type = %q, want goal", out.Entry.Type)
	}
}
