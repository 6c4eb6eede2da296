package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"resume-engine/resume/bullets"
	"resume-engine/resume/keywords"
	"resume-engine/resume/model"
)

// Summary word window.
const (
	MinSummaryWords = 70
	MaxSummaryWords = 80
)

var (
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)
	yearsPattern    = regexp.MustCompile(`(?i)\b\d+\+?\s*(?:years?|yrs?)\b`)
)

var bannedPhrases = []string{
	// buzzwords
	"synergy", "synergize", "rockstar", "rock star", "ninja", "guru", "wizard", "unicorn",
	"thought leader", "game changer", "game-changer", "disruptive", "best-in-class",
	"world-class", "cutting-edge", "bleeding-edge", "results-driven", "results-oriented",
	"detail-oriented", "self-starter", "go-getter", "dynamic", "passionate", "hardworking",
	"hard-working", "visionary", "leverage", "leveraging", "seasoned", "rock-solid",
	// cliches
	"team player", "proven track record", "track record of success", "think outside the box",
	"go above and beyond", "hit the ground running", "fast-paced environment", "wear many hats",
	"strong work ethic", "excellent communication skills", "references available",
	"self-motivated", "highly motivated",
	// compensation, location and posting language
	"salary", "compensation", "per hour", "/hr", "hourly", "benefits", "bonus", "equity",
	"relocat", "remote", "hybrid", "onsite", "on-site", "located in", "based in", "location",
	"posted", "posting", "apply", "hiring", "visa", "sponsorship", "$",
}

type summaryInput struct {
	modelText  string
	title      string
	years      string
	terms      []string
	profile    model.ConsultantProfile
	targets    []RoleTarget
	claimables []string
}

// acceptable reports whether a sentence may appear in the summary.
func acceptable(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, p := range bannedPhrases {
		if strings.Contains(lower, p) {
			return false
		}
	}
	if len(keywords.Pronouns(sentence)) > 0 {
		return false
	}
	return !yearsPattern.MatchString(sentence)
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentencePattern.FindAllString(strings.Join(strings.Fields(text), " "), -1) {
		s = strings.TrimSpace(s)
		if bullets.WordCount(s) == 0 {
			continue
		}
		s = strings.TrimRight(s, ".!? ") + "."
		out = append(out, s)
	}
	return out
}

func words(s string) int {
	return bullets.WordCount(s)
}

// buildSummary composes the 70–80 word paragraph. The opening sentence is always built
// from the job title, the computed years phrase and three job terms; model and profile
// sentences follow only when they pass the content filters.
func buildSummary(in summaryInput) string {
	opening := fmt.Sprintf("%s with %s of experience", in.title, in.years)
	in.terms = screened(withoutTitleTerms(in.terms, in.title))
	lead := firstN(in.terms, 3)
	if len(lead) > 0 {
		opening += " across " + joinList(lead)
	}
	opening += "."

	parts := []string{opening}
	total := words(opening)
	push := func(s string) bool {
		n := words(s)
		if total+n > MaxSummaryWords {
			return false
		}
		parts = append(parts, s)
		total += n
		return true
	}

	seen := map[string]struct{}{strings.ToLower(opening): {}}
	for _, s := range sentences(in.modelText) {
		if !acceptable(s) {
			continue
		}
		if _, dup := seen[strings.ToLower(s)]; dup {
			continue
		}
		seen[strings.ToLower(s)] = struct{}{}
		push(s)
	}

	for _, s := range fillerSentences(in) {
		if total >= MinSummaryWords {
			break
		}
		if !acceptable(s) {
			continue
		}
		push(s)
	}

	if total < MinSummaryWords {
		if pad := padSentence(in, MinSummaryWords-total, MaxSummaryWords-total); pad != "" {
			parts = append(parts, pad)
		}
	}
	return strings.Join(parts, " ")
}

func fillerSentences(in summaryInput) []string {
	var out []string
	out = append(out, sentences(in.profile.Bio)...)

	rest := in.terms
	if len(rest) > 3 {
		rest = rest[3:]
	} else {
		rest = nil
	}
	if len(in.targets) > 0 {
		recent := in.targets[0].Experience
		s := fmt.Sprintf("Most recently served as %s at %s", strings.TrimSpace(recent.Title), strings.TrimSpace(recent.Company))
		if len(rest) > 0 {
			s += ", focused on " + joinList(firstN(rest, 2))
		}
		out = append(out, s+".")
	}
	if len(in.targets) > 1 {
		var prior []string
		for _, t := range in.targets[1:min(len(in.targets), 3)] {
			prior = append(prior, fmt.Sprintf("%s at %s", strings.TrimSpace(t.Experience.Title), strings.TrimSpace(t.Experience.Company)))
		}
		out = append(out, "Earlier roles include "+joinList(prior)+".")
	}
	if len(in.claimables) > 0 {
		out = append(out, "Hands-on strengths include "+joinList(firstN(in.claimables, 5))+".")
	}
	if len(rest) > 2 {
		out = append(out, "Delivery work regularly spans "+joinList(firstN(rest[2:], 4))+".")
	}
	if len(in.profile.Education) > 0 {
		edu := in.profile.Education[0]
		s := "Holds a " + strings.TrimSpace(edu.Degree)
		if f := strings.TrimSpace(edu.Field); f != "" {
			s += " in " + f
		}
		out = append(out, s+" from "+strings.TrimSpace(edu.Institution)+".")
	}
	if names := firstN(certNames(in.profile.Certifications), 2); len(names) > 0 {
		out = append(out, "Credentials include "+joinList(names)+".")
	}
	return out
}

// padSentence closes the remaining gap with a sentence of claimable terms sized to fit.
func padSentence(in summaryInput, need, room int) string {
	var picked []string
	seen := make(map[string]struct{})
	for _, t := range in.claimables {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok || !acceptable(t) {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, t)
	}
	for n := len(picked); n > 0; n-- {
		s := "Additional focus areas include " + joinList(picked[:n]) + "."
		if w := words(s); w <= room {
			if w >= need || n == len(picked) {
				return s
			}
		}
	}
	return ""
}

// screenTitle returns title when it passes the content filters, else the most recent
// role title, else "Professional".
func screenTitle(title string, targets []RoleTarget) string {
	candidates := []string{title}
	if len(targets) > 0 {
		candidates = append(candidates, NormalizeTitle(targets[0].Experience.Title))
	}
	for _, t := range candidates {
		if t = strings.TrimSpace(t); t != "" && acceptable(t) {
			return t
		}
	}
	return "Professional"
}

func screened(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if acceptable(t) {
			out = append(out, t)
		}
	}
	return out
}

// withoutTitleTerms drops terms the title already names so the opening does not repeat them.
func withoutTitleTerms(terms []string, title string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if keywords.Contains(title, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func certNames(certs []model.Certification) []string {
	out := make([]string, 0, len(certs))
	for _, c := range certs {
		if n := strings.TrimSpace(c.Name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
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
