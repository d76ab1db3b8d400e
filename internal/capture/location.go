package capture

import (
	"regexp"
	"strings"
)

// locationPattern captures an "at <phrase>" clause. The phrase must not
// start with a digit (that is a clock time), contains no commas, and ends
// lazily at the next " at ", " on ", or end of string.
var locationPattern = regexp.MustCompile(`(?i)at ([^0-9][^,]+?)(?:\s+at\s+|\s+on\s+|$)`)

// clockLikePattern is the guard that discards captures which are really
// clock times ("at 7pm" must not become a location). Like the original,
// the bare \d{1,2} alternative means any digit in the phrase rejects it.
var clockLikePattern = regexp.MustCompile(`(?i)(\d{1,2}(:\d{2})?\s?(am|pm)?)`)

// ExtractLocation finds a free-text location phrase, trimmed of surrounding
// whitespace. No plausibility checks beyond the clock-time guard; whatever
// survives is accepted verbatim.
func ExtractLocation(text string) (string, bool) {
	m := locationPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if clockLikePattern.MatchString(m[1]) {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
