// Package entry holds the journal's domain model: one Entry per captured
// or hand-written record, tagged with a type from the capture package.
package entry

import "ourjourney/internal/capture"

// Status values for an entry's lifecycle.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Defaults applied by quick capture.
const (
	DefaultCategory = "General"
	DefaultMood     = "neutral"
)

// Entry is one journal record.
type Entry struct {
	// ID is a ULID that uniquely identifies this entry
	ID string `json:"id"`

	// Type is the entry category assigned at capture time
	Type capture.EntryType `json:"type"`

	// Title is the display title (normalized by capture for date entries)
	Title string `json:"title"`

	// Content is free-form markdown, empty for bare quick captures
	Content string `json:"content"`

	// Category groups entries for the dashboard ("General" by default)
	Category string `json:"category"`

	// Mood is the mood recorded with the entry ("neutral" by default)
	Mood string `json:"mood"`

	// Status is active, completed, or archived
	Status string `json:"status"`

	// Progress is a 0-100 completion percentage, used by goals
	Progress int `json:"progress"`

	// TargetDate is the scheduled calendar date, YYYY-MM-DD (nullable)
	TargetDate *string `json:"target_date,omitempty"`

	// TargetTime is the scheduled time of day, HH:MM (nullable)
	TargetTime *string `json:"target_time,omitempty"`

	// Location is the free-text place for schedulable entries (nullable)
	Location *string `json:"location,omitempty"`

	// Tags is a list of tags (stored as JSON in the DB)
	Tags []string `json:"tags,omitempty"`

	// Author is who wrote the entry (nullable, the journal is shared)
	Author *string `json:"author,omitempty"`

	// CreatedAt is the Unix timestamp when the entry was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the entry was last updated
	UpdatedAt int64 `json:"updated_at"`

	// CompletedAt is set when Status transitions to completed (nullable)
	CompletedAt *int64 `json:"completed_at,omitempty"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ValidStatus reports whether s names a known entry status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusCompleted || s == StatusArchived
}

// Summary is an Entry without its content, for browse operations.
type Summary struct {
	ID         string            `json:"id"`
	Type       capture.EntryType `json:"type"`
	Title      string            `json:"title"`
	Category   string            `json:"category"`
	Mood       string            `json:"mood"`
	Status     string            `json:"status"`
	Progress   int               `json:"progress"`
	TargetDate *string           `json:"target_date,omitempty"`
	TargetTime *string           `json:"target_time,omitempty"`
	Location   *string           `json:"location,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Author     *string           `json:"author,omitempty"`
	CreatedAt  int64             `json:"created_at"`
	UpdatedAt  int64             `json:"updated_at"`
	DeletedAt  *int64            `json:"deleted_at,omitempty"`
}

// ToSummary strips the content from an Entry.
func (e *Entry) ToSummary() Summary {
	return Summary{
		ID:         e.ID,
		Type:       e.Type,
		Title:      e.Title,
		Category:   e.Category,
		Mood:       e.Mood,
		Status:     e.Status,
		Progress:   e.Progress,
		TargetDate: e.TargetDate,
		TargetTime: e.TargetTime,
		Location:   e.Location,
		Tags:       e.Tags,
		Author:     e.Author,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		DeletedAt:  e.DeletedAt,
	}
}
