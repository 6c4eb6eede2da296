package prompts

import (
	"fmt"
	"strings"

	"resume-engine/resume/model"
)

const notProvided = "Not provided."

// Vars are the values substituted into a template.
type Vars struct {
	JobTitle          string
	Company           string
	JobDescription    string
	ConsultantName    string
	ConsultantBio     string
	ConsultantSkills  string
	ExperienceSummary string
	Certifications    string
	RoleKeys          string
	JobKeywords       string
}

func (v Vars) values() map[string]string {
	return map[string]string{
		"job_title":          v.JobTitle,
		"company":            v.Company,
		"job_description":    v.JobDescription,
		"consultant_name":    v.ConsultantName,
		"consultant_bio":     v.ConsultantBio,
		"consultant_skills":  v.ConsultantSkills,
		"experience_summary": v.ExperienceSummary,
		"certifications":     v.Certifications,
		"role_keys":          v.RoleKeys,
		"job_keywords":       v.JobKeywords,
	}
}

// BuildVars derives template values from the inputs. roleKeys are the "Title || Company"
// keys the model must use for bullets, in target order.
func BuildVars(p model.ConsultantProfile, j model.JobPosting, roleKeys, jobKeywords []string) Vars {
	return Vars{
		JobTitle:          j.Title,
		Company:           orDefault(j.Company, notProvided),
		JobDescription:    j.Description,
		ConsultantName:    p.Name,
		ConsultantBio:     orDefault(p.Bio, notProvided),
		ConsultantSkills:  orDefault(strings.Join(p.Skills, ", "), notProvided),
		ExperienceSummary: orDefault(experienceSummary(p.Experience), "No experience listed."),
		Certifications:    orDefault(certificationList(p.Certifications), "None listed."),
		RoleKeys:          orDefault(bulletList(roleKeys), "None."),
		JobKeywords:       orDefault(strings.Join(jobKeywords, ", "), "None."),
	}
}

func experienceSummary(items []model.Experience) string {
	lines := make([]string, 0, len(items))
	for _, e := range items {
		start := yearOf(e.Start)
		end := yearOf(e.End)
		if e.Current() {
			end = "Present"
		}
		line := fmt.Sprintf("- %s at %s (%s–%s)", e.Title, e.Company, start, end)
		if d := strings.TrimSpace(e.Description); d != "" {
			line += ": " + d
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func certificationList(items []model.Certification) string {
	names := make([]string, 0, len(items))
	for _, c := range items {
		if n := strings.TrimSpace(c.Name); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}

func yearOf(v string) string {
	if t, ok := model.ParseMonth(v); ok {
		return t.Format("2006")
	}
	return strings.TrimSpace(v)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
