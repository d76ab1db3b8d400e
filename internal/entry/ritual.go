package entry

import "time"

// Ritual is the weekly check-in: one row per week, keyed by the Sunday
// that starts it.
type Ritual struct {
	// ID is a ULID that uniquely identifies this ritual
	ID string `json:"id"`

	// WeekOf is the YYYY-MM-DD of the Sunday starting the week
	WeekOf string `json:"week_of"`

	// Gratitude is what went well this week (nullable)
	Gratitude *string `json:"gratitude,omitempty"`

	// Challenges is what was hard this week (nullable)
	Challenges *string `json:"challenges,omitempty"`

	// Excitement is what we are looking forward to (nullable)
	Excitement *string `json:"excitement,omitempty"`

	// MoodScore is a 1-10 rating for the week (nullable)
	MoodScore *int `json:"mood_score,omitempty"`

	// Reflections is free-form notes (nullable)
	Reflections *string `json:"reflections,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// WeekOf returns the YYYY-MM-DD of the Sunday at or before now, the
// journal's week anchor (weeks start on Sunday, as in the original app).
func WeekOf(now time.Time) string {
	return now.AddDate(0, 0, -int(now.Weekday())).Format("2006-01-02")
}
