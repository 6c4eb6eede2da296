package generation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-engine/internal/drafts"
	"resume-engine/internal/llm"
	"resume-engine/internal/prompts"
	"resume-engine/internal/usage"
	"resume-engine/resume/model"
)

var fixedNow = time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)

type fakeReply struct {
	content string
	err     error
}

type fakeLLM struct {
	mu      sync.Mutex
	replies []fakeReply
	reqs    []llm.Request
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.reqs)
	f.reqs = append(f.reqs, req)
	reply := fakeReply{content: `{"bullets": {}}`}
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	if reply.err != nil {
		return llm.Response{PromptTokens: 7}, reply.err
	}
	return llm.Response{Content: reply.content, Model: req.Model, PromptTokens: 100, CompletionTokens: 50}, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func devopsRequest() Request {
	return Request{
		Consultant: model.ConsultantProfile{
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
		},
		Job: model.JobPosting{
			ID:       "job-1",
			Title:    "Senior DevOps Engineer",
			Company:  "Northwind",
			Location: "Austin, TX (Hybrid)",
			Description: "We are hiring a Senior DevOps Engineer to own AWS infrastructure, Docker images and CI/CD pipelines. " +
				"Experience with Terraform, Python and GitHub Actions is required. Familiarity with Linux and monitoring is a plus.",
			Status: model.JobOpen,
		},
	}
}

func newTestService(t *testing.T, client llm.Client, cfg Config) (*Service, *drafts.MemoryRepo, *usage.Service) {
	t.Helper()
	repo := drafts.NewMemoryRepo()
	ledger := usage.NewService()
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 2000
	}
	svc := NewService(cfg, repo, ledger, client)
	svc.RetryDelay = time.Millisecond
	svc.Now = func() time.Time { return fixedNow }
	return svc, repo, ledger
}

func TestGenerateMockPathProducesDraft(t *testing.T) {
	svc, _, ledger := newTestService(t, nil, Config{})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusDraft {
		t.Fatalf("expected DRAFT, got %s errors=%v", d.Status, d.ValidationErrors)
	}
	if d.Version != 1 || d.Prompt.Model != MockModel {
		t.Fatalf("unexpected draft %+v", d)
	}
	if !strings.HasPrefix(d.Content, "Jordan Lee\n") {
		t.Fatalf("unexpected content %q", d.Content)
	}
	if d.ATSScore <= 0 || d.ATSScore > 100 {
		t.Fatalf("unexpected ats score %d", d.ATSScore)
	}
	if !strings.Contains(d.Prompt.User, "Consultant Name: Jordan Lee") || !strings.Contains(d.Prompt.User, "--- TARGET JOB ---") {
		t.Fatalf("prompt not rendered: %q", d.Prompt.User)
	}
	if d.InputSummary.Roles != 3 || d.InputSummary.ConsultantName != "Jordan Lee" {
		t.Fatalf("unexpected input summary %+v", d.InputSummary)
	}

	records, err := ledger.ForDraft(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(records) != 1 || records[0].Model != MockModel || !records[0].Success || records[0].TotalTokens != 0 {
		t.Fatalf("unexpected usage %+v", records)
	}
}

func TestGenerateWithModelRecordsUsage(t *testing.T) {
	client := &fakeLLM{}
	svc, _, ledger := newTestService(t, client, Config{Temperature: 0.4})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusDraft {
		t.Fatalf("expected DRAFT, got %s errors=%v", d.Status, d.ValidationErrors)
	}
	if client.calls() != 1 {
		t.Fatalf("expected one model call, got %d", client.calls())
	}
	req := client.reqs[0]
	if req.Model != "gpt-4o-mini" || req.Temperature != 0.4 || req.MaxTokens != 2000 {
		t.Fatalf("unexpected request params %+v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != llm.RoleSystem || req.Messages[1].Role != llm.RoleUser {
		t.Fatalf("unexpected messages %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "- Senior DevOps Engineer || Acme") {
		t.Fatalf("role keys missing from prompt: %q", req.Messages[1].Content)
	}
	if d.TokensUsed != 150 {
		t.Fatalf("expected 150 tokens used, got %d", d.TokensUsed)
	}

	records, _ := ledger.ForDraft(context.Background(), d.ID)
	if len(records) != 1 || records[0].Provider != "fake" || records[0].TotalTokens != 150 || !records[0].Success {
		t.Fatalf("unexpected usage %+v", records)
	}
	if records[0].Cost.Total <= 0 {
		t.Fatalf("expected priced usage, got %+v", records[0].Cost)
	}
}

func TestGenerateUnparsableOutputAssemblesFromProfile(t *testing.T) {
	client := &fakeLLM{replies: []fakeReply{{content: "Sorry, here is your resume in prose instead."}}}
	svc, _, _ := newTestService(t, client, Config{})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status == drafts.StatusError {
		t.Fatalf("unparsable output should not end in ERROR: %s", d.Error)
	}
	if !strings.Contains(d.Content, "Professional Experience") || !strings.Contains(d.Content, "Jordan Lee") {
		t.Fatalf("expected content assembled from profile, got %q", d.Content)
	}
}

func TestGenerateRepairPassOnCountErrors(t *testing.T) {
	client := &fakeLLM{}
	svc, _, ledger := newTestService(t, client, Config{})
	req := devopsRequest()
	req.Consultant.Experience = nil

	d, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if client.calls() != 2 {
		t.Fatalf("expected exactly one repair call, got %d calls", client.calls())
	}
	if d.Status != drafts.StatusReview {
		t.Fatalf("expected REVIEW, got %s", d.Status)
	}
	if len(d.ValidationErrors) == 0 || d.Prompt.Repair == "" {
		t.Fatalf("expected recorded errors and repair text, got %+v", d)
	}
	repairMsg := client.reqs[1].Messages[1].Content
	if !strings.Contains(repairMsg, "Hard limits:") || !strings.Contains(repairMsg, "22 to 25 words") {
		t.Fatalf("repair instructions missing constraints: %q", repairMsg)
	}
	if d.TokensUsed != 300 {
		t.Fatalf("expected tokens from both calls, got %d", d.TokensUsed)
	}
	records, _ := ledger.ForDraft(context.Background(), d.ID)
	if len(records) != 2 {
		t.Fatalf("expected usage per attempt, got %d", len(records))
	}
}

func TestGenerateModelFailureStoresSanitizedError(t *testing.T) {
	client := &fakeLLM{replies: []fakeReply{
		{err: llm.Wrap("fake", http.StatusUnauthorized, errors.New("invalid key\nsecond line"))},
	}}
	svc, repo, ledger := newTestService(t, client, Config{})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusError {
		t.Fatalf("expected ERROR, got %s", d.Status)
	}
	if client.calls() != 1 {
		t.Fatalf("auth failures must not be retried, got %d calls", client.calls())
	}
	if strings.ContainsAny(d.Error, "\n\r") || !strings.Contains(d.Error, "invalid key second line") {
		t.Fatalf("unexpected error text %q", d.Error)
	}
	stored, err := repo.Get(context.Background(), d.ID)
	if err != nil || stored.Status != drafts.StatusError {
		t.Fatalf("expected stored ERROR draft, got %+v err=%v", stored, err)
	}

	records, _ := ledger.ForDraft(context.Background(), d.ID)
	if len(records) != 1 || records[0].Success || records[0].Error == "" {
		t.Fatalf("expected failed usage record, got %+v", records)
	}
}

func TestGenerateDoesNotRetryRateLimit(t *testing.T) {
	client := &fakeLLM{replies: []fakeReply{
		{err: llm.Wrap("fake", http.StatusTooManyRequests, errors.New("slow down"))},
	}}
	svc, _, ledger := newTestService(t, client, Config{TransportRetries: 1})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusError || client.calls() != 1 {
		t.Fatalf("expected ERROR after a single call, got %s calls=%d", d.Status, client.calls())
	}
	records, _ := ledger.ForDraft(context.Background(), d.ID)
	if len(records) != 1 || records[0].Success {
		t.Fatalf("unexpected usage %+v", records)
	}
}

func TestGenerateDoesNotRetryByDefault(t *testing.T) {
	client := &fakeLLM{replies: []fakeReply{
		{err: llm.Wrap("fake", http.StatusServiceUnavailable, errors.New("overloaded"))},
	}}
	svc, _, _ := newTestService(t, client, Config{})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusError || client.calls() != 1 {
		t.Fatalf("expected ERROR after a single call, got %s calls=%d", d.Status, client.calls())
	}
}

func TestGenerateTransportRetryWhenEnabled(t *testing.T) {
	client := &fakeLLM{replies: []fakeReply{
		{err: llm.Wrap("fake", http.StatusServiceUnavailable, errors.New("overloaded"))},
	}}
	svc, _, ledger := newTestService(t, client, Config{TransportRetries: 1})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusDraft || client.calls() != 2 {
		t.Fatalf("expected DRAFT after one retry, got %s calls=%d", d.Status, client.calls())
	}
	records, _ := ledger.ForDraft(context.Background(), d.ID)
	if len(records) != 2 || records[0].Success || !records[1].Success {
		t.Fatalf("unexpected usage %+v", records)
	}
}

func TestGenerateCapReachedStoresError(t *testing.T) {
	client := &fakeLLM{}
	svc, _, ledger := newTestService(t, client, Config{MonthlyTokenCap: 500})
	if _, err := ledger.Record(context.Background(), usage.Record{
		Model:            "gpt-4o-mini",
		PromptTokens:     400,
		CompletionTokens: 200,
		Success:          true,
		CreatedAt:        fixedNow.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("seed usage: %v", err)
	}

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Status != drafts.StatusError || d.Error != usage.ErrCapReached.Error() {
		t.Fatalf("expected cap error draft, got %s %q", d.Status, d.Error)
	}
	if client.calls() != 0 {
		t.Fatalf("model must not be called once the cap is reached")
	}
	records, _ := ledger.ForDraft(context.Background(), d.ID)
	if len(records) != 1 || records[0].Success {
		t.Fatalf("expected failed usage record, got %+v", records)
	}
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	svc, repo, _ := newTestService(t, nil, Config{})
	req := devopsRequest()
	req.Consultant.Name = ""
	req.Consultant.Experience[2].End = "02/2021"
	req.Prompt = &prompts.Template{Name: "Broken", TemplateText: "Hi {nobody}", Temperature: 0.5, MaxOutputTokens: 100}

	_, err := svc.Generate(context.Background(), req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"consultant.name", "consultant", "prompt.templateText"} {
		if !fields[want] {
			t.Fatalf("missing field error %q in %+v", want, verr.Errors)
		}
	}

	items, _ := repo.ListByPair(context.Background(), "c-1", "job-1")
	if len(items) != 0 {
		t.Fatalf("nothing should be stored for invalid requests, got %d drafts", len(items))
	}
}

func TestGenerateRejectsClosedJob(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	req := devopsRequest()
	req.Job.Status = model.JobClosed

	if _, err := svc.Generate(context.Background(), req); !errors.Is(err, ErrJobClosed) {
		t.Fatalf("expected ErrJobClosed, got %v", err)
	}
}

func TestGenerateCustomPromptParameters(t *testing.T) {
	client := &fakeLLM{}
	svc, _, _ := newTestService(t, client, Config{Temperature: 0.7})
	req := devopsRequest()
	tpl := prompts.Default()
	tpl.Name = "Custom"
	tpl.Temperature = 0.2
	tpl.MaxOutputTokens = 900
	req.Prompt = &tpl

	d, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if client.reqs[0].Temperature != 0.2 || client.reqs[0].MaxTokens != 900 {
		t.Fatalf("template parameters not applied: %+v", client.reqs[0])
	}
	if d.Prompt.Temperature != 0.2 || d.Prompt.MaxOutputTokens != 900 {
		t.Fatalf("payload not recorded: %+v", d.Prompt)
	}
}

func TestGenerateUsesStoredPrompt(t *testing.T) {
	client := &fakeLLM{}
	svc, _, _ := newTestService(t, client, Config{Temperature: 0.7, PromptID: "p-1"})
	tpl := prompts.Default()
	tpl.ID = "p-1"
	tpl.Name = "Staffing"
	tpl.Temperature = 0.3
	tpl.MaxOutputTokens = 1200
	tpl.IsDefault = false
	svc.Prompts = []prompts.Template{tpl}

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Prompt.Temperature != 0.3 || d.Prompt.MaxOutputTokens != 1200 {
		t.Fatalf("stored template parameters not applied: %+v", d.Prompt)
	}
}

func TestGenerateInvalidStoredPromptFallsBackToDefault(t *testing.T) {
	client := &fakeLLM{}
	svc, _, _ := newTestService(t, client, Config{Temperature: 0.7, PromptID: "p-bad"})
	svc.Prompts = []prompts.Template{{
		ID:              "p-bad",
		Name:            "Broken",
		SystemText:      "Write about {employer}.",
		TemplateText:    "Only {job_title}",
		Temperature:     0.1,
		MaxOutputTokens: 300,
		IsActive:        true,
	}}

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d.Prompt.Temperature != 0.7 || d.Prompt.MaxOutputTokens != 2000 {
		t.Fatalf("payload = %+v, want config parameters", d.Prompt)
	}
	if strings.Contains(d.Prompt.System, "{employer}") || !strings.Contains(d.Prompt.User, "Jordan Lee") {
		t.Fatalf("built-in template not rendered: system=%q", d.Prompt.System)
	}
}

func TestVersionsIncreaseAndPromotionDemotes(t *testing.T) {
	svc, repo, _ := newTestService(t, nil, Config{})
	ctx := context.Background()

	first, err := svc.Generate(ctx, devopsRequest())
	if err != nil {
		t.Fatalf("generate v1: %v", err)
	}
	second, err := svc.Generate(ctx, devopsRequest())
	if err != nil {
		t.Fatalf("generate v2: %v", err)
	}
	if first.Version != 1 || second.Version != 2 {
		t.Fatalf("expected versions 1 and 2, got %d and %d", first.Version, second.Version)
	}

	lifecycle := &drafts.Service{Repo: repo}
	if _, err := lifecycle.Promote(ctx, first.ID); err != nil {
		t.Fatalf("promote v1: %v", err)
	}
	if _, err := lifecycle.Promote(ctx, second.ID); err != nil {
		t.Fatalf("promote v2: %v", err)
	}

	a, _ := repo.Get(ctx, first.ID)
	b, _ := repo.Get(ctx, second.ID)
	if a.Status != drafts.StatusDraft || b.Status != drafts.StatusFinal {
		t.Fatalf("expected A=DRAFT B=FINAL, got A=%s B=%s", a.Status, b.Status)
	}
}

func TestPromoteRejectsErrorDraft(t *testing.T) {
	client := &fakeLLM{replies: []fakeReply{{err: llm.Wrap("fake", http.StatusBadRequest, errors.New("bad"))}}}
	svc, repo, _ := newTestService(t, client, Config{})

	d, err := svc.Generate(context.Background(), devopsRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lifecycle := &drafts.Service{Repo: repo}
	if _, err := lifecycle.Promote(context.Background(), d.ID); !errors.Is(err, drafts.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestValidateAdHoc(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	out := svc.Validate("Jordan Lee\n\nSkills\nCloud: AWS\n", "AWS and Terraform")
	if len(out.Errors) == 0 {
		t.Fatal("expected structural errors for a partial resume")
	}
	if out.ATSScore == nil || len(out.Missing) == 0 {
		t.Fatalf("expected ats score and missing keywords, got %+v", out)
	}
	if svc.Validate("Jordan Lee\n", "").ATSScore != nil {
		t.Fatal("ats score should be omitted without a job description")
	}
}
