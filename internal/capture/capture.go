// Package capture turns one line of free text into a structured journal
// entry: a type, and for schedulable input a target date, time, and
// location. It is a pure function over the input string and an explicit
// reference instant; it knows nothing about storage or transport.
package capture

// EntryType is the closed set of journal entry categories.
type EntryType string

const (
	TypeGoal    EntryType = "goal"
	TypeDate    EntryType = "date"
	TypeEvent   EntryType = "event"
	TypeMemory  EntryType = "memory"
	TypeFeeling EntryType = "feeling"
	TypeIdea    EntryType = "idea" // default when nothing else matches
)

// AllTypes lists every EntryType, in classifier priority order.
var AllTypes = []EntryType{TypeGoal, TypeDate, TypeEvent, TypeMemory, TypeFeeling, TypeIdea}

// ValidType reports whether s names a known entry type.
func ValidType(s string) bool {
	for _, t := range AllTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Schedulable reports whether field extraction applies to the type.
// date entries get date/time/location; event entries get the date only.
func (t EntryType) Schedulable() bool {
	return t == TypeDate || t == TypeEvent
}

// Result is the outcome of interpreting one captured line.
// The optional fields are nil when no cue was recognized, never "".
type Result struct {
	Type       EntryType `json:"type"`
	Title      string    `json:"title"`
	TargetDate *string   `json:"target_date,omitempty"` // YYYY-MM-DD
	TargetTime *string   `json:"target_time,omitempty"` // HH:MM, 24-hour
	Location   *string   `json:"location,omitempty"`
}
