package bullets

import (
	"regexp"
	"strings"
	"unicode"

	"resume-engine/resume/keywords"
)

// Word window every experience bullet must land in.
const (
	MinWords = 22
	MaxWords = 25
)

var (
	markerPattern     = regexp.MustCompile(`^\s*(?:[-•*·–—▪●◦>]+|\(?\d{1,2}[.)])\s*`)
	skillsLinePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 &/+().-]{0,40}:\s*[^,:]+(?:,\s*[^,:]+)+\.?$`)
	byPercentPattern  = regexp.MustCompile(`(?i)\bby\s*%`)
	tildeNounPattern  = regexp.MustCompile(`(?i)~\s*(data|system|systems|service|services|network|networks)\b`)
	aChangePattern    = regexp.MustCompile(`(?i)\b(a)\s+(increase|decrease|reduction|improvement)\b`)
	fillerPattern     = regexp.MustCompile(`(?i)[\s,]*\busing solutions[\s.]*$`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([,.;:!?])`)
	trailingPunct     = regexp.MustCompile(`[\s.,;:!?\-–—]+$`)
)

var connectors = map[string]struct{}{
	"and": {}, "or": {}, "with": {}, "to": {}, "for": {}, "of": {}, "the": {}, "a": {},
	"an": {}, "by": {}, "in": {}, "on": {}, "using": {}, "across": {}, "while": {},
	"via": {}, "from": {}, "into": {}, "at": {}, "as": {}, "that": {}, "which": {},
}

// StripMarker removes leading list markers (dashes, bullets, numbering) and bold markup.
func StripMarker(raw string) string {
	s := strings.ReplaceAll(raw, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	for {
		next := markerPattern.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// IsSkillsLine reports whether a line reads as a "Category: item, item" skills row.
func IsSkillsLine(s string) bool {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, ":")
	if idx <= 0 || len(strings.Fields(s[:idx])) > 4 {
		return false
	}
	return skillsLinePattern.MatchString(s)
}

// Clean strips markers, repairs malformed metric fragments and guarantees terminal
// punctuation. It returns "" for lines that are not achievement lines.
func Clean(raw string) string {
	s := StripMarker(raw)
	if s == "" || IsSkillsLine(s) {
		return ""
	}
	s = byPercentPattern.ReplaceAllString(s, "significantly")
	s = removeOrphanPercent(s)
	s = tildeNounPattern.ReplaceAllString(s, "high $1")
	s = removeOrphanTilde(s)
	s = aChangePattern.ReplaceAllString(s, "$1 significant $2")
	s = fillerPattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = trailingPunct.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	return capitalize(s) + "."
}

// WordCount counts words carrying at least one letter or digit.
func WordCount(s string) int {
	n := 0
	for _, w := range strings.Fields(StripMarker(s)) {
		if strings.IndexFunc(w, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			n++
		}
	}
	return n
}

// Context carries profile and job facts a short bullet may be extended with.
type Context struct {
	// Keywords are job terms the consultant can claim, in display form.
	Keywords []string
	Company  string
	Title    string
}

// Normalizer runs Clean and enforces the word window.
type Normalizer struct {
	Context Context
}

// Normalize returns the finished bullet, or "" when raw is not an achievement line.
func (n Normalizer) Normalize(raw string) string {
	cleaned := Clean(raw)
	if cleaned == "" {
		return ""
	}
	count := WordCount(cleaned)
	switch {
	case count > MaxWords:
		return truncate(cleaned)
	case count < MinWords:
		return n.extend(cleaned)
	default:
		return cleaned
	}
}

func truncate(s string) string {
	words := strings.Fields(strings.TrimSuffix(s, "."))
	if len(words) > MaxWords {
		words = words[:MaxWords]
	}
	for len(words) > MinWords {
		last := strings.ToLower(strings.Trim(words[len(words)-1], ",;:"))
		if _, ok := connectors[last]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	out := strings.Join(words, " ")
	out = trailingPunct.ReplaceAllString(out, "")
	return out + "."
}

func (n Normalizer) extend(s string) string {
	body := strings.TrimSuffix(s, ".")
	count := WordCount(body)

	var kws []string
	for _, kw := range n.Context.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" && !keywords.Contains(body, kw) {
			kws = append(kws, kw)
		}
	}
	if len(kws) > 0 && count < MinWords {
		for k := min(3, len(kws)); k >= 1; k-- {
			clause := " using " + joinList(kws[:k])
			if cw := WordCount(clause); count+cw <= MaxWords {
				body += clause
				count += cw
				break
			}
		}
	}
	company := strings.TrimSpace(n.Context.Company)
	if company != "" && count < MinWords && !strings.Contains(strings.ToLower(body), strings.ToLower(company)) {
		clause := " for " + company
		if cw := WordCount(clause); count+cw <= MaxWords {
			body += clause
			count += cw
		}
	}
	title := strings.TrimSpace(n.Context.Title)
	if title != "" && count < MinWords && !strings.Contains(strings.ToLower(body), strings.ToLower(title)) {
		clause := ", aligned with " + title + " priorities"
		if cw := WordCount(clause); count+cw <= MaxWords {
			body += clause
		}
	}
	return body + "."
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func removeOrphanPercent(s string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range s {
		if r == '%' && !unicode.IsDigit(prev) {
			continue
		}
		b.WriteRune(r)
		if !unicode.IsSpace(r) {
			prev = r
		}
	}
	return b.String()
}

func removeOrphanTilde(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if r == '~' {
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if j >= len(runes) || !unicode.IsDigit(runes[j]) {
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsLower(runes[0]) {
		return s
	}
	if len(runes) > 1 && unicode.IsUpper(runes[1]) {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
