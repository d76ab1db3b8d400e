package capture

import (
	"strings"
	"time"
)

// Interpret turns one captured line into a Result. It never fails: input
// with no recognizable cues comes back as an idea with no optional fields.
// The reference instant must be supplied by the caller; relative expressions
// like "tomorrow" resolve against it.
func Interpret(text string, now time.Time) Result {
	result := Result{
		Type:  Classify(text),
		Title: text,
	}

	switch result.Type {
	case TypeDate:
		if d, ok := ExtractDate(text, now); ok {
			result.TargetDate = &d
		}
		if t, ok := ExtractTime(text); ok {
			result.TargetTime = &t
		}
		if loc, ok := ExtractLocation(text); ok {
			result.Location = &loc
		}
	case TypeEvent:
		// Events get the date only; time and location stay unset.
		if d, ok := ExtractDate(text, now); ok {
			result.TargetDate = &d
		}
	}

	result.Title = normalizeTitle(text, result)
	return result
}

// normalizeTitle strips the first clock-time clause from the title of a
// date entry whose time was recognized. The extracted date and location are
// never removed from the title; only the time substring is.
func normalizeTitle(text string, result Result) string {
	if result.Type != TypeDate || result.TargetTime == nil {
		return text
	}
	loc := clockPattern.FindStringIndex(text)
	if loc == nil {
		// Time came from a meal default; there is no clause to strip.
		return text
	}
	return strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
}
