package ops

import (
	"database/sql"
	"strings"
	"time"

	"ourjourney/internal/capture"
	"ourjourney/internal/db"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// AddInput contains parameters for the Add operation, where the caller
// supplies every field explicitly instead of going through the interpreter.
type AddInput struct {
	Type       string // required
	Title      string // required
	Content    string
	Category   *string // default: "General"
	Mood       *string // default: "neutral"
	Progress   *int
	TargetDate *string // YYYY-MM-DD
	TargetTime *string // HH:MM
	Location   *string
	Tags       []string
	Author     *string
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Entry entry.Entry `json:"entry"`
}

// Add stores a fully specified entry.
func Add(database *sql.DB, input AddInput) (*AddOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	typ := capture.EntryType(strings.ToLower(strings.TrimSpace(input.Type)))
	if !capture.ValidType(string(typ)) {
		return nil, errors.NewInvalidType(input.Type)
	}
	if input.TargetDate != nil {
		if _, err := time.Parse("2006-01-02", *input.TargetDate); err != nil {
			return nil, errors.NewInvalidRequest("target_date must be YYYY-MM-DD")
		}
	}
	if input.TargetTime != nil {
		if _, err := time.Parse("15:04", *input.TargetTime); err != nil {
			return nil, errors.NewInvalidRequest("target_time must be HH:MM")
		}
	}

	category := entry.DefaultCategory
	if c := cleanOptionalString(input.Category); c != nil {
		category = *c
	}
	mood := entry.DefaultMood
	if m := cleanOptionalString(input.Mood); m != nil {
		mood = *m
	}
	progress := 0
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, errors.NewInvalidRequest("progress must be between 0 and 100")
		}
		progress = *input.Progress
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()

	e := &entry.Entry{
		ID:         id,
		Type:       typ,
		Title:      title,
		Content:    input.Content,
		Category:   category,
		Mood:       mood,
		Status:     entry.StatusActive,
		Progress:   progress,
		TargetDate: cleanOptionalString(input.TargetDate),
		TargetTime: cleanOptionalString(input.TargetTime),
		Location:   cleanOptionalString(input.Location),
		Tags:       entry.CleanTags(input.Tags),
		Author:     cleanOptionalString(input.Author),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := db.Insert(database, e); err != nil {
		return nil, err
	}

	return &AddOutput{Entry: *e}, nil
}
