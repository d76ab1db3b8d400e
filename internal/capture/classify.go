package capture

import "strings"

// classifyRule maps a set of keyword cues to an entry type. Keywords are
// matched by unanchored substring containment on the case-folded input, not
// by word boundary. That means "golangoal" matches "goal"; the imprecision
// is intentional and kept for behavior parity with the original capture box.
type classifyRule struct {
	keywords []string
	result   EntryType
}

// keywordRules is the classifier priority chain. Goal phrasing is the most
// specific signal and must preempt incidental scheduling words ("save for
// our trip next weekend" is a goal, not a date), so it is checked before the
// calendar scan. The calendar scan sits between the keyword rules: it is
// consulted only when no goal cue matched, and preempts everything after it.
var keywordRules = []classifyRule{
	{[]string{"goal", "want to", "save for"}, TypeGoal},
	// calendar signal scanner slots here, see Classify
	{[]string{"plan", "going to"}, TypeEvent},
	{[]string{"remember", "today we", "just"}, TypeMemory},
	{[]string{"feeling", "grateful", "happy"}, TypeFeeling},
}

// Classify assigns exactly one EntryType to the text. First matching rule
// wins; every input falls through to TypeIdea.
func Classify(text string) EntryType {
	folded := strings.ToLower(text)

	if matchesAny(folded, keywordRules[0].keywords) {
		return keywordRules[0].result
	}

	// The scanner runs on the original-case text; its patterns are
	// case-insensitive themselves.
	if LooksLikeCalendarEvent(text) {
		return TypeDate
	}

	for _, rule := range keywordRules[1:] {
		if matchesAny(folded, rule.keywords) {
			return rule.result
		}
	}

	return TypeIdea
}

func matchesAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
