package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"ourjourney/internal/capture"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// entryColumns is the column list shared by every entry SELECT.
const entryColumns = `id, type, title, content, category, mood, status, progress,
	target_date, target_time, location, tags_json, author,
	created_at, updated_at, completed_at, deleted_at`

// Insert stores a new entry in the database.
func Insert(db *sql.DB, e *entry.Entry) error {
	tagsJSON, err := tagsToJSON(e.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entries (
			id, type, title, content, category, mood, status, progress,
			target_date, target_time, location, tags_json, author,
			created_at, updated_at, completed_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)
	`

	_, err = db.Exec(query,
		e.ID, string(e.Type), e.Title, e.Content, e.Category, e.Mood, e.Status, e.Progress,
		toNullString(e.TargetDate), toNullString(e.TargetTime), toNullString(e.Location),
		tagsJSON, toNullString(e.Author),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("entry id already exists: " + e.ID)
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetByID retrieves an entry by its ULID.
// If includeDeleted is false, soft-deleted entries are excluded.
func GetByID(db *sql.DB, id string, includeDeleted bool) (*entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return e, nil
}

// UpdateByID updates mutable fields of an existing entry.
// Sets updated_at to current timestamp. Does NOT change: id, type, created_at.
func UpdateByID(db *sql.DB, e *entry.Entry) error {
	tagsJSON, err := tagsToJSON(e.Tags)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	query := `
		UPDATE entries
		SET title = ?, content = ?, category = ?, mood = ?, status = ?, progress = ?,
			target_date = ?, target_time = ?, location = ?, tags_json = ?, author = ?,
			completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		e.Title, e.Content, e.Category, e.Mood, e.Status, e.Progress,
		toNullString(e.TargetDate), toNullString(e.TargetTime), toNullString(e.Location),
		tagsJSON, toNullString(e.Author),
		toNullInt64(e.CompletedAt), now,
		e.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(e.ID)
	}

	e.UpdatedAt = now
	return nil
}

// SoftDelete marks an entry as deleted by setting deleted_at.
func SoftDelete(db *sql.DB, id string) error {
	now := time.Now().Unix()

	result, err := db.Exec(`
		UPDATE entries
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ListFilter narrows a List query. Nil fields are not filtered on.
type ListFilter struct {
	Type           *string
	Status         *string
	Category       *string
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// List retrieves entry summaries ordered by created_at descending.
// Returns the page plus the total row count for the filter.
func List(db *sql.DB, f ListFilter) ([]entry.Summary, int, error) {
	where, args := listWhere(f)

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + entryColumns + ` FROM entries` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := db.Query(query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []entry.Summary
	for rows.Next() {
		e, err := ScanEntryFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, e.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// listWhere builds the WHERE clause for a ListFilter.
func listWhere(f ListFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if !f.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if f.Type != nil {
		conds = append(conds, "type = ?")
		args = append(args, *f.Type)
	}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *f.Status)
	}
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *f.Category)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CalendarRange retrieves schedulable entries (date, event) whose target
// date falls within [startDate, endDate], ordered by date then time.
func CalendarRange(db *sql.DB, startDate, endDate string) ([]entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE type IN ('date', 'event')
		AND deleted_at IS NULL
		AND target_date BETWEEN ? AND ?
		ORDER BY target_date ASC, target_time ASC`

	rows, err := db.Query(query, startDate, endDate)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpcomingSchedulable retrieves schedulable entries with a target date at
// or after fromDate, for the ICS feed and CalDAV sync.
func UpcomingSchedulable(db *sql.DB, fromDate string) ([]entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE type IN ('date', 'event')
		AND deleted_at IS NULL
		AND target_date >= ?
		ORDER BY target_date ASC, target_time ASC`

	rows, err := db.Query(query, fromDate)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// TypeCounts holds the per-type counts for the insights window.
type TypeCounts struct {
	Goals    int `json:"goals_count"`
	Memories int `json:"memories_count"`
	Feelings int `json:"feelings_count"`
	Total    int `json:"total_entries"`
}

// CountByTypeSince aggregates entry counts created at or after since.
func CountByTypeSince(db *sql.DB, since int64) (*TypeCounts, error) {
	query := `
		SELECT
			COUNT(CASE WHEN type = 'goal' THEN 1 END),
			COUNT(CASE WHEN type = 'memory' THEN 1 END),
			COUNT(CASE WHEN type = 'feeling' THEN 1 END),
			COUNT(*)
		FROM entries
		WHERE created_at >= ? AND deleted_at IS NULL
	`

	var c TypeCounts
	if err := db.QueryRow(query, since).Scan(&c.Goals, &c.Memories, &c.Feelings, &c.Total); err != nil {
		return nil, errors.NewInternal(err)
	}
	return &c, nil
}

// CompletedGoalsSince retrieves goals completed at or after since, most
// recent first.
func CompletedGoalsSince(db *sql.DB, since int64, limit int) ([]entry.Summary, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE type = 'goal' AND status = 'completed'
		AND completed_at >= ? AND deleted_at IS NULL
		ORDER BY completed_at DESC LIMIT ?`

	return collectSummaries(db, query, since, limit)
}

// RecentMemoriesSince retrieves memories created at or after since, most
// recent first.
func RecentMemoriesSince(db *sql.DB, since int64, limit int) ([]entry.Summary, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE type = 'memory' AND created_at >= ? AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT ?`

	return collectSummaries(db, query, since, limit)
}

// StreamForExport returns rows over every entry, optionally filtered by
// type, for the export operation to scan one at a time.
func StreamForExport(db *sql.DB, typeFilter *string, includeDeleted bool) (*sql.Rows, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`
	conds := []string{}
	args := []any{}
	if typeFilter != nil {
		conds = append(conds, "type = ?")
		args = append(args, *typeFilter)
	}
	if !includeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// PurgeDeleted permanently removes soft-deleted entries, optionally only
// those deleted more than olderThanDays ago. Returns the number purged.
func PurgeDeleted(db *sql.DB, olderThanDays *int) (int, error) {
	query := "DELETE FROM entries WHERE deleted_at IS NOT NULL"
	args := []any{}
	if olderThanDays != nil {
		cutoff := time.Now().AddDate(0, 0, -*olderThanDays).Unix()
		query += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(count), nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// scanTarget is the common subset of sql.Row and sql.Rows.
type scanTarget interface {
	Scan(dest ...any) error
}

// scanEntry scans a single row into an Entry struct.
func scanEntry(row scanTarget) (*entry.Entry, error) {
	var (
		e           entry.Entry
		typ         string
		targetDate  sql.NullString
		targetTime  sql.NullString
		location    sql.NullString
		tagsJSON    sql.NullString
		author      sql.NullString
		completedAt sql.NullInt64
		deletedAt   sql.NullInt64
	)

	err := row.Scan(
		&e.ID, &typ, &e.Title, &e.Content, &e.Category, &e.Mood, &e.Status, &e.Progress,
		&targetDate, &targetTime, &location, &tagsJSON, &author,
		&e.CreatedAt, &e.UpdatedAt, &completedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Type = capture.EntryType(typ)
	e.TargetDate = fromNullString(targetDate)
	e.TargetTime = fromNullString(targetTime)
	e.Location = fromNullString(location)
	e.Author = fromNullString(author)
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Int64
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Int64
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &e.Tags); err != nil {
			return nil, err
		}
	}

	return &e, nil
}

// ScanEntryFromRows scans the current row of a result set into an Entry.
func ScanEntryFromRows(rows *sql.Rows) (*entry.Entry, error) {
	return scanEntry(rows)
}

// collectEntries drains a result set into a slice of entries.
func collectEntries(rows *sql.Rows) ([]entry.Entry, error) {
	var out []entry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// collectSummaries runs a query and drains the result into summaries.
func collectSummaries(db *sql.DB, query string, args ...any) ([]entry.Summary, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []entry.Summary
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, e.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// tagsToJSON marshals tags for storage, NULL when empty.
func tagsToJSON(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// toNullInt64 converts a *int64 to sql.NullInt64.
func toNullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
