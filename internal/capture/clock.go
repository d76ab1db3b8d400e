package capture

import (
	"fmt"
	"regexp"
	"strings"
)

// clockPattern matches an explicit "at <hour>[:<minutes>][am|pm]" clause.
// Submatches: 1 hour, 3 minutes, 4 meridiem.
var clockPattern = regexp.MustCompile(`(?i)at (\d{1,2})(:(\d{2}))?\s?(am|pm)?`)

// mealDefault pairs a meal keyword with its conventional time.
type mealDefault struct {
	pattern *regexp.Regexp
	time    string
}

// mealDefaults are consulted in order when no explicit clock time appears.
var mealDefaults = []mealDefault{
	{regexp.MustCompile(`(?i)breakfast`), "09:00"},
	{regexp.MustCompile(`(?i)lunch`), "12:00"},
	{regexp.MustCompile(`(?i)dinner`), "19:00"},
}

// ExtractTime finds a time of day in the text, as zero-padded 24-hour HH:MM.
// An explicit clock time always wins over meal-name defaults; at most one
// rule applies. Hours already at 13 or above pass through untouched, as do
// out-of-range captures like "at 27" (no validation, by parity with the
// original).
func ExtractTime(text string) (string, bool) {
	if m := clockPattern.FindStringSubmatch(text); m != nil {
		hours := atoiDigits(m[1])
		minutes := m[3]
		if minutes == "" {
			minutes = "00"
		}

		switch strings.ToLower(m[4]) {
		case "pm":
			if hours < 12 {
				hours += 12
			}
		case "am":
			if hours == 12 {
				hours = 0
			}
		}

		return fmt.Sprintf("%02d:%s", hours, minutes), true
	}

	for _, meal := range mealDefaults {
		if meal.pattern.MatchString(text) {
			return meal.time, true
		}
	}

	return "", false
}
