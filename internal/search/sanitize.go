package search

import "strings"

// Characters with meaning in the engine's query-string syntax. Stripping
// them prevents malformed-syntax 400s from the engine; this is not a
// security boundary. AND/OR/NOT stay available as operators on purpose.
const badSearchChars = `!+/:[]^{}~`

// SanitizeInput strips query-syntax characters from free-text input,
// collapses doubled spaces, and balances an odd number of double quotes by
// escaping the final one.
func SanitizeInput(text string) string {
	for _, c := range badSearchChars {
		text = strings.ReplaceAll(text, string(c), "")
	}
	text = strings.ReplaceAll(text, "  ", " ")

	if strings.Count(text, `"`)%2 == 1 {
		if i := strings.LastIndex(text, `"`); i >= 0 {
			text = text[:i] + `\"` + text[i+1:]
		}
	}
	return text
}
