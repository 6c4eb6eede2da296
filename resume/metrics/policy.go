package metrics

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"resume-engine/resume/bullets"
	"resume-engine/resume/keywords"
)

const (
	currencyExpr = `[$€£]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:k|m|b|mm|million|billion|thousand)\b)?`
	percentExpr  = `~?\d+(?:\.\d+)?\s?(?:%|percent\b)`
	durationExpr = `~?\d+(?:\.\d+)?\s?(?:ms|milliseconds?|seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|months?|years?)\b`
	scaleExpr    = `\b\d+(?:\.\d+)?\s?(?:k|m|b|million|billion|thousand)\b`
	integerExpr  = `\b\d{1,3}(?:,\d{3})+\b|\b\d{3,}\b`
	leadExpr     = `(?:\s*\b(?:by|of|to|from|over|under|nearly|approximately|about|around|roughly|almost|up to|more than|less than)\b)*\s*`
)

var (
	metricPattern    = regexp.MustCompile(`(?i)` + currencyExpr + `|` + percentExpr + `|` + durationExpr + `|` + scaleExpr + `|` + integerExpr)
	strippedPattern  = regexp.MustCompile(`(?i)` + leadExpr + `(?:` + currencyExpr + `|` + percentExpr + `|` + durationExpr + `|` + scaleExpr + `|` + integerExpr + `)`)
	currencyPattern  = regexp.MustCompile(`(?i)^` + currencyExpr + `$`)
	percentPattern   = regexp.MustCompile(`(?i)^~?(\d+(?:\.\d+)?)(\s?(?:%|percent))$`)
	durationPattern  = regexp.MustCompile(`(?i)^~?(\d+(?:\.\d+)?)(\s?[a-z]+)$`)
	integerPattern   = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$|^\d{3,}$`)
	articlePattern   = regexp.MustCompile(`(?i)\b(a)\s+(?:significant|substantial|notable)\s+(\w)`)
	qualifierPattern = regexp.MustCompile(`(?i)\b(?:significantly|substantially|notably|significant|substantial|notable)\b\s*`)
	danglingPattern  = regexp.MustCompile(`\s+([,.;:])`)
	doubleComma      = regexp.MustCompile(`,\s*,`)
	clauseEnd        = regexp.MustCompile(`[,;]|\.(?:\s|$)`)
)

// HasMetric reports whether a bullet carries a currency amount, percentage, duration or
// a bare integer of three or more digits.
func HasMetric(b string) bool {
	return metricPattern.MatchString(b)
}

// Cap returns how many metric-bearing bullets a role may keep.
func Cap(roleIndex int, jobText string) int {
	perf := keywords.HasPerformanceSignal(jobText)
	switch {
	case roleIndex == 0 && perf:
		return 2
	case roleIndex == 0:
		return 1
	case perf:
		return 1
	default:
		return 0
	}
}

// Apply enforces metric hygiene over one role's bullets. methodKeywords lists the tools
// and methods a metric claim must be anchored to; when empty, job description keywords
// are used instead.
func Apply(items []string, jobText string, methodKeywords []string, maxMetrics int) []string {
	methods := methodKeywords
	if len(methods) == 0 {
		methods = keywords.Extract(jobText, 0)
	}
	out := make([]string, 0, len(items))
	kept := 0
	for _, b := range items {
		if !HasMetric(b) {
			out = append(out, StripQualifiers(b))
			continue
		}
		if kept < maxMetrics && WellFormed(b, methods) {
			out = append(out, Round(keepFirst(b)))
			kept++
			continue
		}
		out = append(out, StripQualifiers(Strip(b)))
	}
	return out
}

// WellFormed reports whether a metric claim pairs an action verb with a method keyword.
func WellFormed(b string, methods []string) bool {
	return HasActionVerb(b) && hasMethod(b, methods)
}

// HasActionVerb reports whether any word of b is a recognized action verb.
func HasActionVerb(b string) bool {
	for _, w := range strings.Fields(strings.ToLower(b)) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) })
		if _, ok := actionVerbs[w]; ok {
			return true
		}
	}
	return false
}

func hasMethod(b string, methods []string) bool {
	for _, m := range methods {
		if keywords.Contains(b, m) {
			return true
		}
	}
	return false
}

// Strip removes every numeric claim (and the preposition leading into it) from b.
func Strip(b string) string {
	return tidy(strippedPattern.ReplaceAllString(b, ""))
}

// StripQualifiers drops significance language that is not backed by a number.
func StripQualifiers(b string) string {
	if HasMetric(b) {
		return b
	}
	out := articlePattern.ReplaceAllStringFunc(b, func(m string) string {
		sub := articlePattern.FindStringSubmatch(m)
		article := sub[1]
		if strings.ContainsRune("aeiouAEIOU", rune(sub[2][0])) {
			article += "n"
		}
		return article + " " + sub[2]
	})
	out = qualifierPattern.ReplaceAllString(out, "")
	if out == b {
		return b
	}
	return tidy(out)
}

// Round rewrites decimal percentages and durations to "~N" and large integers to "over Nk".
func Round(b string) string {
	locs := metricPattern.FindAllStringIndex(b, -1)
	if len(locs) == 0 {
		return b
	}
	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(b[last:loc[0]])
		prefix := strings.ToLower(strings.TrimRight(b[:loc[0]], " "))
		afterOver := prefix == "over" || strings.HasSuffix(prefix, " over")
		sb.WriteString(roundOne(b[loc[0]:loc[1]], afterOver))
		last = loc[1]
	}
	sb.WriteString(b[last:])
	return sb.String()
}

func roundOne(m string, afterOver bool) string {
	if sub := percentPattern.FindStringSubmatch(m); sub != nil {
		return approx(sub[1], sub[2], m)
	}
	if currencyPattern.MatchString(m) {
		digits := strings.NewReplacer(",", "", " ", "").Replace(m[1:])
		if n, err := strconv.Atoi(digits); err == nil && n >= 10000 {
			return overK(m[:1], n, afterOver)
		}
		return m
	}
	if integerPattern.MatchString(m) {
		n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
		if err == nil && n >= 10000 {
			return overK("", n, afterOver)
		}
		return m
	}
	if sub := durationPattern.FindStringSubmatch(m); sub != nil {
		return approx(sub[1], sub[2], m)
	}
	return m
}

func approx(number, unit, original string) string {
	if !strings.Contains(number, ".") {
		return original
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return original
	}
	return "~" + strconv.Itoa(int(math.Round(f))) + unit
}

func overK(symbol string, n int, afterOver bool) string {
	out := symbol + strconv.Itoa(n/1000) + "k"
	if afterOver {
		return out
	}
	return "over " + out
}

// keepFirst keeps the first metric and drops each later one together with the clause that
// carries it, from the preceding ", ", "; " or " and " up to the next clause break.
func keepFirst(b string) string {
	loc := metricPattern.FindStringIndex(b)
	if loc == nil {
		return b
	}
	head, tail := b[:loc[1]], b[loc[1]:]
	if !HasMetric(tail) {
		return b
	}
	for {
		m := metricPattern.FindStringIndex(tail)
		if m == nil {
			break
		}
		start := clauseStart(tail[:m[0]])
		if start < 0 {
			tail = strippedPattern.ReplaceAllString(tail, "")
			break
		}
		end := len(tail)
		if e := clauseEnd.FindStringIndex(tail[m[1]:]); e != nil {
			end = m[1] + e[0]
		}
		tail = tail[:start] + tail[end:]
	}
	return tidy(head + tail)
}

func clauseStart(s string) int {
	start := -1
	for _, sep := range []string{", ", "; ", " and "} {
		if i := strings.LastIndex(s, sep); i > start {
			start = i
		}
	}
	return start
}

func tidy(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = doubleComma.ReplaceAllString(s, ",")
	s = danglingPattern.ReplaceAllString(s, "$1")
	if cleaned := bullets.Clean(s); cleaned != "" {
		return cleaned
	}
	return s
}
