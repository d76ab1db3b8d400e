package ops

import (
	"database/sql"
	"time"

	"ourjourney/internal/db"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// RitualCurrentOutput contains the result of the RitualCurrent operation.
type RitualCurrentOutput struct {
	WeekOf string        `json:"week_of"`
	Ritual *entry.Ritual `json:"ritual"` // nil when the week has no ritual yet
}

// RitualCurrent retrieves this week's ritual, if one has been saved.
func RitualCurrent(database *sql.DB) (*RitualCurrentOutput, error) {
	weekOf := entry.WeekOf(time.Now())

	r, err := db.GetRitualByWeek(database, weekOf)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &RitualCurrentOutput{WeekOf: weekOf}, nil
		}
		return nil, err
	}

	return &RitualCurrentOutput{WeekOf: weekOf, Ritual: r}, nil
}

// RitualSaveInput contains parameters for the RitualSave operation.
type RitualSaveInput struct {
	WeekOf      *string // optional, default: the current week
	Gratitude   *string
	Challenges  *string
	Excitement  *string
	MoodScore   *int // 1-10
	Reflections *string
}

// RitualSaveOutput contains the result of the RitualSave operation.
type RitualSaveOutput struct {
	Ritual entry.Ritual `json:"ritual"`
}

// RitualSave stores the weekly check-in, replacing the answers of an
// existing ritual for the same week.
func RitualSave(database *sql.DB, input RitualSaveInput) (*RitualSaveOutput, error) {
	weekOf := entry.WeekOf(time.Now())
	if w := cleanOptionalString(input.WeekOf); w != nil {
		parsed, err := time.Parse("2006-01-02", *w)
		if err != nil {
			return nil, errors.NewInvalidRequest("week_of must be YYYY-MM-DD")
		}
		// Snap to the Sunday that starts the week
		weekOf = entry.WeekOf(parsed)
	}

	if input.MoodScore != nil && (*input.MoodScore < 1 || *input.MoodScore > 10) {
		return nil, errors.NewInvalidRequest("mood_score must be between 1 and 10")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	r := &entry.Ritual{
		ID:          id,
		WeekOf:      weekOf,
		Gratitude:   cleanOptionalString(input.Gratitude),
		Challenges:  cleanOptionalString(input.Challenges),
		Excitement:  cleanOptionalString(input.Excitement),
		MoodScore:   input.MoodScore,
		Reflections: cleanOptionalString(input.Reflections),
	}

	saved, err := db.UpsertRitual(database, r)
	if err != nil {
		return nil, err
	}

	return &RitualSaveOutput{Ritual: *saved}, nil
}
