package ops

import (
	"database/sql"
	"time"

	"ourjourney/internal/db"
	"ourjourney/internal/entry"
)

// Insights window and list sizes
const (
	InsightsWindowDays = 30
	InsightsListLimit  = 5
)

// InsightsOutput contains the result of the Insights operation.
type InsightsOutput struct {
	WindowDays     int             `json:"window_days"`
	Counts         db.TypeCounts   `json:"counts"`
	CompletedGoals []entry.Summary `json:"completed_goals"`
	RecentMemories []entry.Summary `json:"recent_memories"`
}

// Insights summarizes the last thirty days of the journal: per-type entry
// counts, recently completed goals, and recent memories.
func Insights(database *sql.DB) (*InsightsOutput, error) {
	since := time.Now().AddDate(0, 0, -InsightsWindowDays).Unix()

	counts, err := db.CountByTypeSince(database, since)
	if err != nil {
		return nil, err
	}

	goals, err := db.CompletedGoalsSince(database, since, InsightsListLimit)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []entry.Summary{}
	}

	memories, err := db.RecentMemoriesSince(database, since, InsightsListLimit)
	if err != nil {
		return nil, err
	}
	if memories == nil {
		memories = []entry.Summary{}
	}

	return &InsightsOutput{
		WindowDays:     InsightsWindowDays,
		Counts:         *counts,
		CompletedGoals: goals,
		RecentMemories: memories,
	}, nil
}
