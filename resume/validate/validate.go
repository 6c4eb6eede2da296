package validate

import (
	"fmt"
	"strings"

	"resume-engine/resume/bullets"
	"resume-engine/resume/document"
	"resume-engine/resume/keywords"
)

// Structural windows.
const (
	MinSummaryWords       = 70
	MaxSummaryWords       = 80
	MinExperienceBullets  = 6
	MinRecentRoleBullets  = 7
	MaxRecentRoleBullets  = 10
	OlderRoleBulletTarget = 6
)

// Report is the outcome of a structural check. Errors drive a draft into review;
// warnings are informational.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK reports whether no errors were found.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// HasCountErrors reports whether any error concerns bullet or word counts.
func (r Report) HasCountErrors() bool {
	for _, e := range r.Errors {
		if strings.Contains(e, " words;") || strings.Contains(e, " bullets;") {
			return true
		}
	}
	return false
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks an assembled resume body against the structural grammar. Every
// violation is reported; the function never fails.
func Validate(content string) Report {
	r := Report{Errors: []string{}, Warnings: []string{}}
	doc := document.Parse(content)

	checkHeadings(&r, doc, content)
	checkSummary(&r, doc)
	checkSkills(&r, doc)
	checkExperience(&r, doc)
	checkCertifications(&r, doc)
	return r
}

func checkHeadings(r *Report, doc document.Document, content string) {
	prevName, prevPos := "", -1
	for _, h := range document.RequiredHeadings {
		if !strings.Contains(content, h) {
			r.errorf("missing required heading %q", h)
			continue
		}
		pos := strings.Index(content, h)
		if line, ok := doc.HeadingLine(h); ok {
			pos = line.Offset
		}
		if prevPos >= 0 && pos < prevPos {
			r.errorf("heading %q must appear after %q", h, prevName)
		}
		prevName, prevPos = h, pos
	}
}

func checkSummary(r *Report, doc document.Document) {
	if _, ok := doc.HeadingLine(document.HeadingSummary); !ok {
		return
	}
	var parts []string
	for _, l := range doc.Section(document.HeadingSummary) {
		if l.Kind != document.Blank {
			parts = append(parts, l.Text)
		}
	}
	text := strings.Join(parts, " ")
	if n := bullets.WordCount(text); n < MinSummaryWords || n > MaxSummaryWords {
		r.errorf("Professional Summary has %d words; expected %d-%d", n, MinSummaryWords, MaxSummaryWords)
	}
	if len(parts) > 1 {
		r.warnf("Professional Summary spans %d lines; expected a single paragraph", len(parts))
	}
	if found := keywords.Pronouns(text); len(found) > 0 {
		r.warnf("Professional Summary contains pronouns: %s", strings.Join(found, ", "))
	}
}

func checkSkills(r *Report, doc document.Document) {
	if _, ok := doc.HeadingLine(document.HeadingSkills); !ok {
		return
	}
	count := 0
	for _, l := range doc.Section(document.HeadingSkills) {
		if l.Kind == document.Blank {
			continue
		}
		count++
		if document.IsBulletText(l.Text) {
			r.errorf("skills line %q must not start with a bullet marker", l.Text)
			continue
		}
		if !strings.Contains(l.Text, ":") {
			r.errorf("skills line %q must use the Category: item, item format", l.Text)
		}
	}
	if count == 0 {
		r.errorf("Skills section is empty")
	}
}

func checkExperience(r *Report, doc document.Document) {
	if _, ok := doc.HeadingLine(document.HeadingExperience); !ok {
		return
	}
	roles, orphans := doc.Roles()
	total := len(orphans)
	for _, role := range roles {
		total += len(role.Bullets)
	}
	if total < MinExperienceBullets {
		r.errorf("Professional Experience has %d bullets; expected at least %d", total, MinExperienceBullets)
	}
	if len(roles) == 0 {
		r.errorf("no role headers detected in Professional Experience")
	}
	for i, role := range roles {
		n := len(role.Bullets)
		switch {
		case i == 0 && (n < MinRecentRoleBullets || n > MaxRecentRoleBullets):
			r.errorf("most recent role %q has %d bullets; expected %d-%d", role.Header.Text, n, MinRecentRoleBullets, MaxRecentRoleBullets)
		case i > 0 && n != OlderRoleBulletTarget:
			r.errorf("role %q has %d bullets; expected exactly %d", role.Header.Text, n, OlderRoleBulletTarget)
		}
	}

	for _, l := range orphans {
		checkBullet(r, l, "")
	}
	for _, role := range roles {
		seen := make(map[string]struct{}, len(role.Bullets))
		for _, l := range role.Bullets {
			checkBullet(r, l, role.Header.Text)
			key := bullets.Key(l.Body)
			if _, dup := seen[key]; dup {
				r.warnf("duplicate bullet in role %q: %q", role.Header.Text, l.Body)
			}
			seen[key] = struct{}{}
		}
	}
}

func checkBullet(r *Report, l document.Line, role string) {
	where := fmt.Sprintf("line %d", l.Index+1)
	if role != "" {
		where = fmt.Sprintf("line %d (%s)", l.Index+1, role)
	}
	if n := bullets.WordCount(l.Body); n < bullets.MinWords || n > bullets.MaxWords {
		r.errorf("bullet at %s has %d words; expected %d-%d", where, n, bullets.MinWords, bullets.MaxWords)
	}
	if !strings.HasSuffix(l.Body, ".") {
		r.warnf("bullet at %s does not end with a period", where)
	}
}

func checkCertifications(r *Report, doc document.Document) {
	if _, ok := doc.HeadingLine(document.HeadingCertifications); !ok {
		return
	}
	for _, l := range doc.Section(document.HeadingCertifications) {
		if l.Kind != document.Blank {
			return
		}
	}
	r.warnf("Certifications heading present but section is empty")
}
