// Package assemble builds the resume body from a consultant profile, a job posting and
// optional model output. Every section is derived from those inputs; nothing is invented.
package assemble

import (
	"strings"
	"time"

	"resume-engine/resume/document"
	"resume-engine/resume/keywords"
	"resume-engine/resume/model"
)

// Generated is the structured content a model returns for one generation.
type Generated struct {
	Summary string              `json:"summary"`
	Skills  []SkillGroup        `json:"skills"`
	Bullets map[string][]string `json:"bullets"`
}

// Empty reports whether the model contributed nothing usable.
func (g Generated) Empty() bool {
	return strings.TrimSpace(g.Summary) == "" && len(g.Skills) == 0 && len(g.Bullets) == 0
}

// BulletsMap keys finished bullets by "title||company".
type BulletsMap map[string][]string

type Input struct {
	Profile   model.ConsultantProfile
	Job       model.JobPosting
	Generated Generated
	Now       time.Time
}

type Result struct {
	Content  string
	Bullets  BulletsMap
	Targets  []RoleTarget
	Keywords []string
	Warnings []string
}

// Assemble renders Header, Professional Summary, Skills, Professional Experience,
// Education and, when present, Certifications.
func Assemble(in Input) Result {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	jobText := strings.TrimSpace(in.Job.Title + "\n" + in.Job.Description)
	terms := leadTerms(jobText)
	claimables := claimableTerms(jobText, in.Profile.Skills)
	targets := RoleTargets(in.Profile.Experience)
	title := screenTitle(NormalizeTitle(in.Job.Title), targets)
	years, current := YearsOfExperience(in.Profile.Experience, now)

	res := Result{
		Bullets:  make(BulletsMap, len(targets)),
		Targets:  targets,
		Keywords: keywords.Extract(jobText, 0),
	}

	var lines []string
	lines = append(lines, strings.TrimSpace(in.Profile.Name))
	if contact := ContactLine(in.Profile, in.Job.Location); contact != "" {
		lines = append(lines, contact)
	}
	lines = append(lines, "")

	lines = append(lines, document.HeadingSummary)
	lines = append(lines, buildSummary(summaryInput{
		modelText:  in.Generated.Summary,
		title:      title,
		years:      FormatYears(years, current),
		terms:      terms,
		profile:    in.Profile,
		targets:    targets,
		claimables: claimables,
	}), "")

	lines = append(lines, document.HeadingSkills)
	skills := BuildSkills(in.Generated.Skills, jobText, in.Profile.Skills)
	if len(skills) == 0 && len(terms) > 0 {
		skills = []SkillGroup{{Category: coreCategory, Items: firstN(terms, 8)}}
	}
	if len(skills) == 0 {
		res.Warnings = append(res.Warnings, "no job description terms available for the Skills section")
	}
	lines = append(lines, SkillLines(skills)...)
	lines = append(lines, "")

	lines = append(lines, document.HeadingExperience)
	generated := normalizeKeys(in.Generated.Bullets)
	seen := make(map[string]struct{})
	for i, t := range targets {
		items := buildRole(roleInput{
			target:     t,
			index:      i,
			raw:        generated[t.Key()],
			jobText:    jobText,
			claimables: claimables,
			title:      title,
			seen:       seen,
		})
		if len(items) < t.Min {
			res.Warnings = append(res.Warnings, "role "+RoleHeader(t.Experience)+" has fewer bullets than required")
		}
		res.Bullets[t.Key()] = items
		lines = append(lines, RoleHeader(t.Experience))
		for _, b := range items {
			lines = append(lines, "- "+b)
		}
		lines = append(lines, "")
	}

	lines = append(lines, document.HeadingEducation)
	for _, edu := range in.Profile.Education {
		lines = append(lines, EducationLine(edu))
	}

	if names := certNames(in.Profile.Certifications); len(names) > 0 {
		lines = append(lines, "", document.HeadingCertifications)
		for _, n := range names {
			lines = append(lines, "- "+n)
		}
	}

	res.Content = strings.Join(lines, "\n") + "\n"
	return res
}

// leadTerms are job terms in the job's own spelling: taxonomy hits first, then raw
// keywords, so the summary always has something to quote verbatim.
func leadTerms(jobText string) []string {
	out := JobTerms(jobText)
	seen := make(map[string]struct{}, len(out))
	for _, t := range out {
		seen[strings.ToLower(t)] = struct{}{}
	}
	for _, kw := range keywords.Extract(jobText, 0) {
		if len(out) >= 12 {
			break
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		if s := keywords.Surface(jobText, kw); s != "" {
			seen[kw] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// claimableTerms lists the consultant's skills that the job mentions, followed by the
// job's taxonomy terms. With neither, the consultant's own skills are used as written.
// Raw job words are never claimable.
func claimableTerms(jobText string, skills []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok || s == "" {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	for _, s := range skills {
		add(jobSurface(jobText, s))
	}
	for _, t := range JobTerms(jobText) {
		add(t)
	}
	if len(out) == 0 {
		for _, s := range skills {
			add(strings.TrimSpace(s))
		}
	}
	return out
}

func normalizeKeys(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		title, company, ok := strings.Cut(k, "||")
		if !ok {
			out[k] = append(out[k], v...)
			continue
		}
		key := model.RoleKey(title, company)
		out[key] = append(out[key], v...)
	}
	return out
}
