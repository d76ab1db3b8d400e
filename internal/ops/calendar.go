package ops

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ourjourney/internal/db"
	"ourjourney/internal/entry"
	"ourjourney/internal/errors"
)

// CalendarMonthInput contains parameters for the CalendarMonth operation.
type CalendarMonthInput struct {
	Year  int
	Month int
}

// CalendarMonthOutput contains the schedulable entries of one month.
type CalendarMonthOutput struct {
	Year    int           `json:"year"`
	Month   int           `json:"month"`
	Entries []entry.Entry `json:"entries"`
}

// CalendarMonth retrieves the schedulable entries of a calendar month,
// ordered by date then time.
func CalendarMonth(database *sql.DB, input CalendarMonthInput) (*CalendarMonthOutput, error) {
	if input.Year < 1 || input.Year > 9999 {
		return nil, errors.NewInvalidRequest("year must be a four-digit year")
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, errors.NewInvalidRequest("month must be between 1 and 12")
	}

	first := time.Date(input.Year, time.Month(input.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	entries, err := db.CalendarRange(database, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entry.Entry{}
	}

	return &CalendarMonthOutput{
		Year:    input.Year,
		Month:   input.Month,
		Entries: entries,
	}, nil
}

// CalendarDayInput contains parameters for the CalendarDay operation.
type CalendarDayInput struct {
	Date string // YYYY-MM-DD
}

// CalendarDayOutput contains the schedulable entries of one day.
type CalendarDayOutput struct {
	Date    string        `json:"date"`
	Entries []entry.Entry `json:"entries"`
}

// CalendarDay retrieves the schedulable entries of a single day.
func CalendarDay(database *sql.DB, input CalendarDayInput) (*CalendarDayOutput, error) {
	date := strings.TrimSpace(input.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("date must be YYYY-MM-DD: %q", input.Date))
	}

	entries, err := db.CalendarRange(database, date, date)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entry.Entry{}
	}

	return &CalendarDayOutput{
		Date:    date,
		Entries: entries,
	}, nil
}
