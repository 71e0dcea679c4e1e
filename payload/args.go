package payload

import "strings"

// Args is a decoded tool arguments object.
type Args map[string]any

// String returns the trimmed string stored under the first key holding a
// non-blank string.
func (a Args) String(keys ...string) string {
	for _, key := range keys {
		if s, ok := a[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// HasList reports whether any key holds a non-empty list.
func (a Args) HasList(keys ...string) bool {
	for _, key := range keys {
		if list, ok := a[key].([]any); ok && len(list) > 0 {
			return true
		}
	}
	return false
}

// Question is the prompt the assistant is asking the user, if any.
func (a Args) Question() string {
	return a.String("question")
}

// HasInteractionMarkers reports whether the arguments look like a request
// for user input: a question, a list of choices or actions, or a
// recommended action.
func (a Args) HasInteractionMarkers() bool {
	return a.Question() != "" ||
		a.HasList("choices", "actions") ||
		a.String("recommendedAction", "recommended_action") != ""
}

// SummaryHint is the first meaningful line of a multi-line summary with
// any leading bullet markers removed.
func (a Args) SummaryHint() string {
	summary, ok := a["summary"].(string)
	if !ok {
		return ""
	}
	for _, line := range strings.FieldsFunc(summary, isLineBreak) {
		candidate := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-* "))
		if candidate != "" {
			return NormalizeBody(candidate)
		}
	}
	return ""
}

// isLineBreak matches every line boundary a summary may use, including bare
// carriage returns and the Unicode line and paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
