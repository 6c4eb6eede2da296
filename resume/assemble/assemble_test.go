package assemble

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-engine/resume/bullets"
	"resume-engine/resume/document"
	"resume-engine/resume/model"
	"resume-engine/resume/validate"
)

var fixedNow = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

func devopsJob() model.JobPosting {
	return model.JobPosting{
		ID:       "job-1",
		Title:    "Senior DevOps Engineer",
		Company:  "Northwind",
		Location: "Austin, TX (Hybrid)",
		Description: "We are hiring a Senior DevOps Engineer to own AWS infrastructure, Docker images and CI/CD pipelines. " +
			"Experience with Terraform, Python and GitHub Actions is required. Familiarity with Linux and monitoring is a plus.",
		Status: model.JobOpen,
	}
}

func devopsProfile() model.ConsultantProfile {
	return model.ConsultantProfile{
		ID:       "c-1",
		Name:     "Jordan Lee",
		Email:    "jordan@example.com",
		Phone:    "555-0100",
		Location: "Denver, CO",
		Bio:      "Platform engineer focused on reliable delivery pipelines. Builds tooling that lets product teams release safely.",
		Skills:   []string{"AWS", "Docker", "Terraform", "Python", "Kubernetes"},
		Experience: []model.Experience{
			{Title: "Systems Engineer", Company: "Globex", Start: "2016-01", End: "2018-12"},
			{Title: "Senior DevOps Engineer", Company: "Acme", Start: "2021-03", IsCurrent: true,
				Description: "Owned the AWS landing zone. Ran the Docker build farm."},
			{Title: "DevOps Engineer", Company: "Initech", Start: "2019-01", End: "2021-02"},
		},
		Education: []model.Education{
			{Degree: "B.S.", Field: "Computer Science", Institution: "State University", Start: "2011-09", End: "2015-05"},
		},
		Certifications: []model.Certification{{Name: "AWS Certified Solutions Architect", Issuer: "Amazon"}},
	}
}

func TestAssembleValidatesClean(t *testing.T) {
	res := Assemble(Input{Profile: devopsProfile(), Job: devopsJob(), Now: fixedNow})

	report := validate.Validate(res.Content)
	assert.Empty(t, report.Errors, "content:\n%s", res.Content)

	require.Len(t, res.Targets, 3)
	assert.Equal(t, "Acme", res.Targets[0].Experience.Company)
	assert.Equal(t, "Initech", res.Targets[1].Experience.Company)
	assert.Equal(t, "Globex", res.Targets[2].Experience.Company)
}

func TestAssembleBulletInvariants(t *testing.T) {
	res := Assemble(Input{Profile: devopsProfile(), Job: devopsJob(), Now: fixedNow})

	for i, target := range res.Targets {
		items := res.Bullets[target.Key()]
		if i == 0 {
			assert.GreaterOrEqual(t, len(items), 7)
			assert.LessOrEqual(t, len(items), 10)
		} else {
			assert.Len(t, items, 6)
		}
		for _, b := range items {
			n := bullets.WordCount(b)
			assert.True(t, n >= bullets.MinWords && n <= bullets.MaxWords, "%d words: %q", n, b)
		}
		assert.Equal(t, len(items), len(bullets.Dedupe(items)))
	}
}

func TestAssembleHeadingOrder(t *testing.T) {
	res := Assemble(Input{Profile: devopsProfile(), Job: devopsJob(), Now: fixedNow})

	prev := -1
	for _, h := range append(document.RequiredHeadings, document.HeadingCertifications) {
		idx := strings.Index(res.Content, "\n"+h+"\n")
		require.GreaterOrEqual(t, idx, 0, h)
		assert.Greater(t, idx, prev, h)
		prev = idx
	}
}

func TestAssembleHeaderAndSummary(t *testing.T) {
	res := Assemble(Input{Profile: devopsProfile(), Job: devopsJob(), Now: fixedNow})
	lines := strings.Split(res.Content, "\n")

	assert.Equal(t, "Jordan Lee", lines[0])
	assert.Equal(t, "Austin, TX | jordan@example.com | 555-0100", lines[1])

	doc := document.Parse(res.Content)
	var summary []string
	for _, l := range doc.Section(document.HeadingSummary) {
		if l.Kind != document.Blank {
			summary = append(summary, l.Text)
		}
	}
	require.Len(t, summary, 1)
	text := summary[0]
	assert.True(t, strings.HasPrefix(text, "DevOps Engineer with 10+ years of experience"), text)
	n := bullets.WordCount(text)
	assert.True(t, n >= MinSummaryWords && n <= MaxSummaryWords, "%d words: %q", n, text)

	hits := 0
	for _, kw := range []string{"AWS", "Docker", "CI/CD", "Terraform", "Python"} {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	assert.GreaterOrEqual(t, hits, 3)
	assert.NotContains(t, strings.ToLower(text), "hybrid")
}

func TestAssembleSkillsPurity(t *testing.T) {
	job := model.JobPosting{
		ID:          "job-2",
		Title:       "Backend Engineer",
		Description: "Build services in Python on AWS. Infrastructure is managed with Terraform.",
	}
	gen := Generated{Skills: []SkillGroup{
		{Category: "Cloud Platforms", Items: []string{"AWS", "GCP"}},
		{Category: "Containers & Orchestration", Items: []string{"Kubernetes", "Docker"}},
		{Category: "Programming Languages", Items: []string{"Python", "Go"}},
	}}
	res := Assemble(Input{Profile: devopsProfile(), Job: job, Generated: gen, Now: fixedNow})

	doc := document.Parse(res.Content)
	var skills []string
	for _, l := range doc.Section(document.HeadingSkills) {
		if l.Kind != document.Blank {
			skills = append(skills, l.Text)
		}
	}
	joined := strings.Join(skills, "\n")
	assert.Contains(t, joined, "AWS")
	assert.Contains(t, joined, "Python")
	for _, banned := range []string{"Kubernetes", "Docker", "GCP", "Go,"} {
		assert.NotContains(t, joined, banned)
	}
	assert.NotContains(t, joined, "Containers")
}

func TestAssembleSkillsFallback(t *testing.T) {
	job := model.JobPosting{ID: "job-3", Title: "Cloud Engineer", Description: "Python, AWS, Terraform."}
	res := Assemble(Input{Profile: devopsProfile(), Job: job, Now: fixedNow})

	doc := document.Parse(res.Content)
	var skills []string
	for _, l := range doc.Section(document.HeadingSkills) {
		if l.Kind != document.Blank {
			skills = append(skills, l.Text)
		}
	}
	assert.Equal(t, []string{
		"Cloud Platforms: AWS",
		"Infrastructure as Code: Terraform",
		"Programming Languages: Python",
	}, skills)
}

func TestAssembleUsesModelBullets(t *testing.T) {
	modelBullet := "Built Terraform modules for AWS networking and IAM so product teams could provision consistent staging and production environments without waiting on tickets."
	gen := Generated{Bullets: map[string][]string{
		"Senior DevOps Engineer || ACME": {"- " + modelBullet},
	}}
	res := Assemble(Input{Profile: devopsProfile(), Job: devopsJob(), Generated: gen, Now: fixedNow})

	items := res.Bullets[model.RoleKey("Senior DevOps Engineer", "Acme")]
	require.NotEmpty(t, items)
	assert.Equal(t, modelBullet, items[0])
}

func TestAssembleOmitsEmptyCertifications(t *testing.T) {
	p := devopsProfile()
	p.Certifications = nil
	res := Assemble(Input{Profile: p, Job: devopsJob(), Now: fixedNow})
	assert.NotContains(t, res.Content, document.HeadingCertifications)
}

func TestRoleTargetsAndYears(t *testing.T) {
	p := devopsProfile()
	targets := RoleTargets(p.Experience)
	require.Len(t, targets, 3)
	assert.Equal(t, [2]int{7, 10}, [2]int{targets[0].Min, targets[0].Max})
	assert.Equal(t, [2]int{6, 6}, [2]int{targets[2].Min, targets[2].Max})

	years, current := YearsOfExperience(p.Experience, fixedNow)
	assert.Equal(t, 10, years)
	assert.True(t, current)
	assert.Equal(t, "10+ years", FormatYears(years, current))

	years, current = YearsOfExperience(p.Experience[:1], fixedNow)
	assert.Equal(t, 2, years)
	assert.False(t, current)
	assert.Equal(t, "2 years", FormatYears(years, current))
}

func TestHeaderHelpers(t *testing.T) {
	assert.Equal(t, "Austin, TX", ReduceLocation("Austin, TX 78701 (Hybrid)"))
	assert.Equal(t, "London, United Kingdom", ReduceLocation("London, United Kingdom"))
	assert.Equal(t, "DevOps Engineer", NormalizeTitle("Senior DevOps Engineer"))
	assert.Equal(t, "Senior", NormalizeTitle("Senior"))
	assert.Equal(t, "DevOps Engineer", NormalizeTitle("Senior DevOps Engineer (Remote)"))
	assert.Equal(t, "Data Analyst", NormalizeTitle("Data Analyst - Hybrid, Austin TX"))
	assert.Equal(t, "Python Developer", NormalizeTitle("Contract Python Developer"))
	assert.Equal(t, "Site Reliability Engineer", NormalizeTitle("Site Reliability Engineer [W2] | Full-Time"))
	assert.Equal(t, "Senior DevOps Engineer | Acme | Mar 2021 – Present", RoleHeader(devopsProfile().Experience[1]))
	assert.Equal(t, "B.S. in Computer Science | State University | 2015", EducationLine(devopsProfile().Education[0]))
}

func TestAssembleSummaryDropsPostingQualifiers(t *testing.T) {
	job := devopsJob()
	job.Title = "Senior DevOps Engineer (Remote)"
	res := Assemble(Input{Profile: devopsProfile(), Job: job, Now: fixedNow})

	summary := strings.Join(sectionText(res.Content, document.HeadingSummary), " ")
	assert.True(t, strings.HasPrefix(summary, "DevOps Engineer with 10+ years of experience"), summary)
	assert.NotContains(t, strings.ToLower(summary), "remote")
}

func TestAssembleFallsBackToRoleTitleForOpening(t *testing.T) {
	job := devopsJob()
	job.Title = "Remote"
	res := Assemble(Input{Profile: devopsProfile(), Job: job, Now: fixedNow})

	summary := strings.Join(sectionText(res.Content, document.HeadingSummary), " ")
	assert.True(t, strings.HasPrefix(summary, "DevOps Engineer with 10+ years of experience"), summary)
}

func TestAssembleWithoutClaimableTermsKeepsBulletsGrounded(t *testing.T) {
	profile := model.ConsultantProfile{
		ID:   "c-2",
		Name: "Sam Rivera",
		Experience: []model.Experience{
			{Title: "Analyst", Company: "Foo", Start: "2022-01", IsCurrent: true,
				Description: "Built weekly revenue dashboards for regional managers."},
		},
	}
	job := model.JobPosting{
		ID:          "job-9",
		Title:       "Data Analyst",
		Description: "Analyze sales reports in Excel and Tableau and present findings to leadership.",
	}
	res := Assemble(Input{Profile: profile, Job: job, Now: fixedNow})

	items := res.Bullets[model.RoleKey("Analyst", "Foo")]
	require.NotEmpty(t, items)
	var grounded bool
	for _, b := range items {
		assert.NotContains(t, b, "using Analy")
		assert.NotContains(t, strings.ToLower(b), "sales")
		assert.NotContains(t, b, "Migrated legacy workloads")
		if strings.Contains(b, "revenue dashboards") {
			grounded = true
		}
	}
	assert.True(t, grounded, "bullets: %v", items)
	assert.NotContains(t, res.Content, "Known for")
	assert.NotEmpty(t, res.Warnings)

	report := validate.Validate(res.Content)
	assert.NotEmpty(t, report.Errors)
}

func sectionText(content, heading string) []string {
	var out []string
	for _, l := range document.Parse(content).Section(heading) {
		if l.Kind != document.Blank {
			out = append(out, l.Text)
		}
	}
	return out
}
