package db

import (
	"database/sql"
	"time"

	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

const ritualColumns = `id, week_of, gratitude, challenges, excitement,
	mood_score, reflections, created_at, updated_at`

// UpsertRitual inserts a weekly ritual or, when one already exists for the
// same week_of, updates its answer fields in place. The stored row keeps
// its original id and created_at either way.
func UpsertRitual(db *sql.DB, r *entry.Ritual) (*entry.Ritual, error) {
	now := time.Now().Unix()

	query := `
		INSERT INTO rituals (
			id, week_of, gratitude, challenges, excitement,
			mood_score, reflections, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_of) DO UPDATE SET
			gratitude = excluded.gratitude,
			challenges = excluded.challenges,
			excitement = excluded.excitement,
			mood_score = excluded.mood_score,
			reflections = excluded.reflections,
			updated_at = excluded.updated_at
	`

	_, err := db.Exec(query,
		r.ID, r.WeekOf,
		toNullString(r.Gratitude), toNullString(r.Challenges), toNullString(r.Excitement),
		toNullInt(r.MoodScore), toNullString(r.Reflections),
		now, now,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return GetRitualByWeek(db, r.WeekOf)
}

// GetRitualByWeek retrieves the ritual for a given week_of date, if any.
func GetRitualByWeek(db *sql.DB, weekOf string) (*entry.Ritual, error) {
	query := `SELECT ` + ritualColumns + ` FROM rituals WHERE week_of = ?`

	row := db.QueryRow(query, weekOf)
	r, err := scanRitual(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("ritual for week " + weekOf)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// scanRitual scans a single row into a Ritual struct.
func scanRitual(row scanTarget) (*entry.Ritual, error) {
	var (
		r           entry.Ritual
		gratitude   sql.NullString
		challenges  sql.NullString
		excitement  sql.NullString
		moodScore   sql.NullInt64
		reflections sql.NullString
	)

	err := row.Scan(
		&r.ID, &r.WeekOf, &gratitude, &challenges, &excitement,
		&moodScore, &reflections, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Gratitude = fromNullString(gratitude)
	r.Challenges = fromNullString(challenges)
	r.Excitement = fromNullString(excitement)
	r.Reflections = fromNullString(reflections)
	if moodScore.Valid {
		score := int(moodScore.Int64)
		r.MoodScore = &score
	}

	return &r, nil
}

// toNullInt converts a *int to sql.NullInt64.
func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
