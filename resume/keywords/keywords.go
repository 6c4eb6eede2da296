package keywords

import (
	"regexp"
	"strings"
)

var (
	tokenPattern   = regexp.MustCompile(`[a-z0-9][a-z0-9+.#/_-]*`)
	numericPattern = regexp.MustCompile(`^[0-9][0-9.,/_+kK-]*$`)
)

// Extract tokenizes text into a deduplicated keyword sequence in first-seen order.
// max <= 0 disables truncation.
func Extract(text string, max int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if len(tok) < 3 || numericPattern.MatchString(tok) || IsStopword(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// Tokenize lower-cases text and splits it into raw tokens. Trailing separators are
// trimmed so sentence punctuation does not glue onto words; + and # are kept.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimRight(tok, "./_-")
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// IsStopword reports whether a lower-cased token is in the noise set.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

var performanceSignals = map[string]struct{}{
	"kpi": {}, "kpis": {}, "sla": {}, "slas": {}, "slo": {}, "slos": {}, "uptime": {},
	"mttr": {}, "latency": {}, "throughput": {}, "cost": {}, "costs": {}, "savings": {},
	"efficiency": {}, "benchmark": {}, "benchmarks": {}, "roi": {}, "performance": {},
	"availability": {}, "reliability": {}, "metrics": {}, "optimization": {}, "revenue": {},
}

// HasPerformanceSignal reports whether a job description asks for measurable outcomes.
func HasPerformanceSignal(text string) bool {
	for _, tok := range Tokenize(text) {
		if _, ok := performanceSignals[tok]; ok {
			return true
		}
	}
	return false
}

// Contains reports whether kw occurs in text on token boundaries, case-insensitively.
func Contains(text, kw string) bool {
	return Index(text, kw) >= 0
}

// Index returns the byte offset of the first boundary-aligned, case-insensitive
// occurrence of kw in text, or -1.
func Index(text, kw string) int {
	kw = strings.ToLower(strings.TrimSpace(kw))
	if kw == "" {
		return -1
	}
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// Case folding changed byte widths; fall back to an ASCII-only fold so offsets
		// stay valid against text.
		lower = asciiLower(text)
	}
	start := 0
	for {
		idx := strings.Index(lower[start:], kw)
		if idx < 0 {
			return -1
		}
		pos := start + idx
		end := pos + len(kw)
		if boundary(lower, pos-1) && boundary(lower, end) {
			return pos
		}
		start = pos + 1
	}
}

// Surface returns kw as it is spelled in text, or "" when text does not contain it.
func Surface(text, kw string) string {
	idx := Index(text, kw)
	if idx < 0 {
		return ""
	}
	return text[idx : idx+len(strings.TrimSpace(kw))]
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '#')
}

var pronouns = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "mine": {}, "myself": {}, "we": {}, "us": {}, "our": {},
	"ours": {}, "you": {}, "your": {}, "yours": {}, "he": {}, "him": {}, "his": {},
	"she": {}, "her": {}, "hers": {}, "they": {}, "them": {}, "their": {}, "theirs": {},
}

// Pronouns returns the personal pronouns found in text, in order of appearance.
func Pronouns(text string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '\'')
	}) {
		w = strings.Trim(w, "'")
		if len(w) > 1 && w == strings.ToUpper(w) {
			continue
		}
		w = strings.ToLower(w)
		if _, ok := pronouns[w]; ok {
			out = append(out, w)
		}
	}
	return out
}
