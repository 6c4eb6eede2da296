package prompts

import "strings"

const defaultSystemText = `You are a professional resume writer for a consulting and IT staffing firm.
Tailor the consultant's resume to the target job using only facts from the consultant profile.
Never invent employers, titles, dates, degrees, certifications or metrics.
Mirror the job description's terminology where the consultant can truthfully claim it.
Respond with a single JSON object and nothing else.`

const defaultTemplateText = `Consultant Name: {consultant_name}
Bio: {consultant_bio}
Skills: {consultant_skills}
Experience:
{experience_summary}
Certifications: {certifications}

--- TARGET JOB ---
Title: {job_title}
Company: {company}
Description:
{job_description}

Key terms from the job: {job_keywords}

Return JSON shaped exactly like:
{{"summary": "...", "skills": [{{"category": "...", "items": ["..."]}}], "bullets": {{"<Title> || <Company>": ["..."]}}}}

Rules:
- summary: 70 to 80 words, opening with the job title, third person without pronouns.
- skills: only terms that appear in the job description, grouped by category.
- bullets: use exactly these role keys:
{role_keys}
- Each bullet is one sentence of 22 to 25 words that starts with an action verb and ends with a period.
- Give the most recent role 7 to 10 bullets and every other role 6 bullets.
- Use at most two numeric metrics in the most recent role and one in each older role.`

// Default returns the built-in template used when no stored template is active.
func Default() Template {
	return Template{
		Name:            "Built-in default",
		SystemText:      defaultSystemText,
		TemplateText:    defaultTemplateText,
		Temperature:     0.7,
		MaxOutputTokens: 2000,
		IsActive:        true,
		IsDefault:       true,
	}
}

// Resolve picks the template for a generation: the configured template when active,
// then the active default, then any active template, then the built-in default.
func Resolve(configured string, all []Template) Template {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		for _, t := range all {
			if t.IsActive && (t.ID == configured || t.Name == configured) {
				return t
			}
		}
	}
	for _, t := range all {
		if t.IsActive && t.IsDefault {
			return t
		}
	}
	for _, t := range all {
		if t.IsActive {
			return t
		}
	}
	return Default()
}
