package rules

import "strings"

// Match is the result of evaluating a rule against a document.
type Match struct {
	Matched bool
	Text    string // representative matched fragment
}

// Evaluate runs the rule's patterns against text, respecting match_mode and
// exclude patterns. Exclude patterns veto the whole document.
func (r *CompiledRule) Evaluate(text string) Match {
	lower := strings.ToLower(text)
	if excluded(r.ExcludePatterns, text, lower) {
		return Match{}
	}

	switch r.MatchMode {
	case MatchAll:
		var first string
		for _, pat := range r.Patterns {
			hit, ok := patternMatch(pat, text, lower)
			if !ok {
				return Match{}
			}
			if first == "" {
				first = hit
			}
		}
		return Match{Matched: true, Text: first}
	default:
		for _, pat := range r.Patterns {
			if hit, ok := patternMatch(pat, text, lower); ok {
				return Match{Matched: true, Text: hit}
			}
		}
		return Match{}
	}
}

func excluded(pats []CompiledPattern, text, lower string) bool {
	for _, pat := range pats {
		if _, ok := patternMatch(pat, text, lower); ok {
			return true
		}
	}
	return false
}

func patternMatch(pat CompiledPattern, text, lower string) (string, bool) {
	switch pat.Type {
	case PatternRegex:
		if pat.Regex == nil {
			return "", false
		}
		if hit := pat.Regex.FindString(text); hit != "" {
			return hit, true
		}
		return "", false
	case PatternContains:
		if pat.Value != "" && strings.Contains(lower, pat.Value) {
			return pat.Value, true
		}
		return "", false
	}
	return "", false
}
