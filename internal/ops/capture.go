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

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	Text   string // required
	Author *string
	Tags   []string
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	Entry          entry.Entry    `json:"entry"`
	Interpretation capture.Result `json:"interpretation"`
	SwitchView     string         `json:"switch_view,omitempty"`
}

// Capture interprets a free-text phrase and stores the resulting entry.
// The interpreter decides the entry type and, for scheduled types, the
// target date, time, and location; everything else gets defaults.
func Capture(database *sql.DB, input CaptureInput) (*CaptureOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}

	now := time.Now()
	result := capture.Interpret(text, now)

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	e := &entry.Entry{
		ID:         id,
		Type:       result.Type,
		Title:      result.Title,
		Category:   entry.DefaultCategory,
		Mood:       entry.DefaultMood,
		Status:     entry.StatusActive,
		TargetDate: result.TargetDate,
		TargetTime: result.TargetTime,
		Location:   result.Location,
		Tags:       entry.CleanTags(input.Tags),
		Author:     cleanOptionalString(input.Author),
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	}

	if err := db.Insert(database, e); err != nil {
		return nil, err
	}

	output := &CaptureOutput{
		Entry:          *e,
		Interpretation: result,
	}
	// A freshly captured date is what the user most likely wants to see
	if result.Type == capture.TypeDate {
		output.SwitchView = "calendar"
	}

	return output, nil
}
