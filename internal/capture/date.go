package capture

import (
	"regexp"
	"time"
)

// dateLayout is the calendar-date output form.
const dateLayout = "2006-01-02"

var (
	tomorrowPattern  = regexp.MustCompile(`(?i)tomorrow`)
	tonightPattern   = regexp.MustCompile(`(?i)tonight`)
	weekendPattern   = regexp.MustCompile(`(?i)this weekend|saturday|sunday`)
	sundayPattern    = regexp.MustCompile(`(?i)sunday`)
	slashDatePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)
)

// ExtractDate resolves the first date expression in the text against the
// reference instant. Rules are tried in order and never combined: "tomorrow
// at 7pm on 11/12" resolves via the tomorrow rule, ignoring the slash date.
func ExtractDate(text string, now time.Time) (string, bool) {
	if tomorrowPattern.MatchString(text) {
		return now.AddDate(0, 0, 1).Format(dateLayout), true
	}

	if tonightPattern.MatchString(text) {
		return now.Format(dateLayout), true
	}

	if weekendPattern.MatchString(text) {
		// Next Saturday at or after now; when today already is Saturday
		// this yields a full week ahead, never today.
		days := (6 - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		weekend := now.AddDate(0, 0, days)
		if sundayPattern.MatchString(text) {
			weekend = weekend.AddDate(0, 0, 1)
		}
		return weekend.Format(dateLayout), true
	}

	if m := slashDatePattern.FindStringSubmatch(text); m != nil {
		month := atoiDigits(m[1])
		day := atoiDigits(m[2])
		// Out-of-range components are not validated; time.Date normalizes
		// them (month 13 rolls into January of the next year, and so on).
		d := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
		// Strictly-before comparison against the full instant: a slash
		// date naming today's calendar day rolls forward a year, matching
		// the midnight-vs-now comparison in the original.
		if d.Before(now) {
			d = d.AddDate(1, 0, 0)
		}
		return d.Format(dateLayout), true
	}

	return "", false
}

// atoiDigits parses a string of ASCII digits. The callers only pass regexp
// captures of \d{1,2}, so overflow and signs cannot occur.
func atoiDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
