package ops

import (
	"database/sql"
	"strings"
	"time"

	"ourjourney/internal/db"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
// Nil fields are left unchanged; pointer-to-empty clears an optional field.
type UpdateInput struct {
	ID         string // required
	Title      *string
	Content    *string
	Category   *string
	Mood       *string
	Status     *string
	Progress   *int
	TargetDate *string
	TargetTime *string
	Location   *string
	Tags       []string // nil means unchanged, empty slice clears
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Entry entry.Entry `json:"entry"`
}

// Update applies a partial update to an existing entry. Moving status to
// completed stamps completed_at; moving it away clears the stamp.
func Update(database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	e, err := db.GetByID(database, id, false)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		e.Title = title
	}
	if input.Content != nil {
		e.Content = *input.Content
	}
	if input.Category != nil {
		if c := cleanOptionalString(input.Category); c != nil {
			e.Category = *c
		} else {
			e.Category = entry.DefaultCategory
		}
	}
	if input.Mood != nil {
		if m := cleanOptionalString(input.Mood); m != nil {
			e.Mood = *m
		} else {
			e.Mood = entry.DefaultMood
		}
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !entry.ValidStatus(status) {
			return nil, errors.NewInvalidRequest("status must be one of: active, completed, archived")
		}
		if status == entry.StatusCompleted && e.Status != entry.StatusCompleted {
			now := time.Now().Unix()
			e.CompletedAt = &now
		}
		if status != entry.StatusCompleted {
			e.CompletedAt = nil
		}
		e.Status = status
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, errors.NewInvalidRequest("progress must be between 0 and 100")
		}
		e.Progress = *input.Progress
	}
	if input.TargetDate != nil {
		d := cleanOptionalString(input.TargetDate)
		if d != nil {
			if _, err := time.Parse("2006-01-02", *d); err != nil {
				return nil, errors.NewInvalidRequest("target_date must be YYYY-MM-DD")
			}
		}
		e.TargetDate = d
	}
	if input.TargetTime != nil {
		tm := cleanOptionalString(input.TargetTime)
		if tm != nil {
			if _, err := time.Parse("15:04", *tm); err != nil {
				return nil, errors.NewInvalidRequest("target_time must be HH:MM")
			}
		}
		e.TargetTime = tm
	}
	if input.Location != nil {
		e.Location = cleanOptionalString(input.Location)
	}
	if input.Tags != nil {
		e.Tags = entry.CleanTags(input.Tags)
	}

	if err := db.UpdateByID(database, e); err != nil {
		return nil, err
	}

	return &UpdateOutput{Entry: *e}, nil
}
