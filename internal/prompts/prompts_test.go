package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-engine/resume/model"
)

func TestDefaultTemplateIsValid(t *testing.T) {
	assert.Empty(t, Default().Validate())
	assert.NoError(t, Default().Check())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	tpl := Template{
		Name:            "",
		TemplateText:    "Hello {consultant_name} about {job_title} at {employer} {Bad} {open",
		Temperature:     3,
		MaxOutputTokens: 0,
	}
	errs := tpl.Validate()

	messages := map[string][]string{}
	for _, fe := range errs {
		messages[fe.Field] = append(messages[fe.Field], fe.Message)
	}
	assert.Contains(t, messages["name"], "is required")
	assert.Contains(t, messages["temperature"], "must be at most 2")
	assert.Contains(t, messages["maxOutputTokens"], "must be greater than 0")

	joined := strings.Join(messages["templateText"], "\n")
	assert.Contains(t, joined, "unknown placeholder {employer}")
	assert.Contains(t, joined, "malformed placeholder {Bad}")
	assert.Contains(t, joined, "malformed placeholder")
	assert.Contains(t, joined, "{company}")
	assert.Contains(t, joined, "{certifications}")
	assert.NotContains(t, joined, "{consultant_name},")

	var verr *ValidationError
	require.True(t, errors.As(tpl.Check(), &verr))
	assert.Len(t, verr.Errors, len(errs))
}

func TestValidateAllowsEscapedBraces(t *testing.T) {
	tpl := Default()
	tpl.TemplateText = `{{"literal": true}} ` + tpl.TemplateText
	assert.Empty(t, tpl.Validate())
}

func TestValidateRejectsStrayClosingBrace(t *testing.T) {
	tpl := Default()
	tpl.SystemText = "Answer } now"
	errs := tpl.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "systemText", errs[0].Field)
}

func TestRenderSubstitutesAndUnescapes(t *testing.T) {
	tpl := Template{
		SystemText:   "Write for {company}.",
		TemplateText: `{consultant_name} -> {job_title} {{"k": "{missing}"}}`,
	}
	system, user := tpl.Render(Vars{Company: "Acme", ConsultantName: "Jordan", JobTitle: "SRE"})
	assert.Equal(t, "Write for Acme.", system)
	assert.Equal(t, `Jordan -> SRE {"k": "{missing}"}`, user)
}

func TestBuildVarsFallbacks(t *testing.T) {
	v := BuildVars(model.ConsultantProfile{Name: "Jordan"}, model.JobPosting{Title: "SRE", Description: "Run things."}, nil, nil)
	assert.Equal(t, "Not provided.", v.ConsultantBio)
	assert.Equal(t, "Not provided.", v.ConsultantSkills)
	assert.Equal(t, "Not provided.", v.Company)
	assert.Equal(t, "No experience listed.", v.ExperienceSummary)
	assert.Equal(t, "None listed.", v.Certifications)
}

func TestBuildVarsExperience(t *testing.T) {
	p := model.ConsultantProfile{
		Name:   "Jordan",
		Skills: []string{"AWS", "Go"},
		Experience: []model.Experience{
			{Title: "SRE", Company: "Acme", Start: "2021-03", IsCurrent: true},
			{Title: "Engineer", Company: "Globex", Start: "2017-01", End: "2021-02", Description: "Ran builds."},
		},
		Certifications: []model.Certification{{Name: "CKA"}},
	}
	v := BuildVars(p, model.JobPosting{Title: "SRE", Company: "Initech"}, []string{"SRE || Acme"}, []string{"aws", "go"})
	assert.Equal(t, "- SRE at Acme (2021–Present)\n- Engineer at Globex (2017–2021): Ran builds.", v.ExperienceSummary)
	assert.Equal(t, "AWS, Go", v.ConsultantSkills)
	assert.Equal(t, "CKA", v.Certifications)
	assert.Equal(t, "- SRE || Acme", v.RoleKeys)
	assert.Equal(t, "aws, go", v.JobKeywords)
}

func TestResolveOrder(t *testing.T) {
	configured := Template{ID: "p1", Name: "Configured", IsActive: true}
	inactive := Template{ID: "p2", Name: "Inactive", IsActive: false, IsDefault: true}
	def := Template{ID: "p3", Name: "Default", IsActive: true, IsDefault: true}
	other := Template{ID: "p4", Name: "Other", IsActive: true}

	assert.Equal(t, "p1", Resolve("p1", []Template{other, def, configured}).ID)
	assert.Equal(t, "p3", Resolve("p2", []Template{inactive, other, def}).ID)
	assert.Equal(t, "p4", Resolve("", []Template{inactive, other}).ID)
	assert.Equal(t, Default().Name, Resolve("", []Template{inactive}).Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	raw := `[{"id": "p-1", "name": "Staffing", "templateText": "{job_title}", "temperature": 0.3, "maxOutputTokens": 900, "isActive": true, "isDefault": true}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	all, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p-1", all[0].ID)
	assert.Equal(t, 900, all[0].MaxOutputTokens)
	assert.Equal(t, "p-1", Resolve("", all).ID)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}
