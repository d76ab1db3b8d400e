package capture

import "regexp"

// calendarCue is one named signal that marks input as calendar-event-shaped.
type calendarCue struct {
	name    string
	pattern *regexp.Regexp
}

// calendarCues is the fixed cue table for the signal scanner. The scanner
// ORs the cues together; the order here is for auditing, not priority.
var calendarCues = []calendarCue{
	{"occasion", regexp.MustCompile(`(?i)date|dinner|lunch|breakfast|movie|concert|show|tickets?`)},
	{"relative-time", regexp.MustCompile(`(?i)tomorrow|tonight|weekend|next \w+day|this \w+day`)},
	{"clock-time", regexp.MustCompile(`(?i)at \d{1,2}(:\d{2})?\s?(am|pm)?`)},
	{"month-day", regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{1,2}`)},
	{"slash-date", regexp.MustCompile(`\d{1,2}/\d{1,2}`)},
}

// LooksLikeCalendarEvent reports whether any calendar cue matches the text.
func LooksLikeCalendarEvent(text string) bool {
	for _, cue := range calendarCues {
		if cue.pattern.MatchString(text) {
			return true
		}
	}
	return false
}
