package bullets

import (
	"strings"
	"unicode"

	"resume-engine/resume/keywords"
)

var dedupeStopwords = map[string]struct{}{
	"a": {}, "an": {}, "of": {}, "to": {}, "in": {}, "on": {}, "at": {}, "by": {}, "as": {},
	"is": {}, "it": {}, "or": {},
}

// Key returns the comparison key used to spot duplicate bullets.
func Key(s string) string {
	lower := strings.ToLower(StripMarker(s))
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lower)
	var kept []string
	for _, w := range strings.Fields(stripped) {
		if _, ok := dedupeStopwords[w]; ok {
			continue
		}
		if keywords.IsStopword(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Dedupe drops bullets whose key was already seen, preserving first occurrence order.
// Empty bullets are dropped as well.
func Dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		key := Key(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
