// Package generation drives one resume generation: prompt rendering, the model call,
// assembly, validation, the optional repair pass and persistence of the draft.
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-engine/internal/drafts"
	"resume-engine/internal/llm"
	"resume-engine/internal/prompts"
	"resume-engine/internal/shared/metrics"
	"resume-engine/internal/shared/telemetry"
	"resume-engine/internal/shared/util"
	"resume-engine/internal/usage"
	"resume-engine/resume/assemble"
	"resume-engine/resume/ats"
	"resume-engine/resume/keywords"
	"resume-engine/resume/model"
	"resume-engine/resume/validate"
)

// promptKeywords bounds the job terms quoted back to the model.
const promptKeywords = 20

// Request is one generation call. Prompt overrides the resolved template when set.
type Request struct {
	Consultant model.ConsultantProfile `json:"consultant"`
	Job        model.JobPosting        `json:"job"`
	Prompt     *prompts.Template       `json:"prompt,omitempty" validate:"-"`
}

// Service orchestrates generations. Client may be nil, in which case drafts are
// assembled from profile data alone.
type Service struct {
	Drafts  drafts.Repo
	Usage   *usage.Service
	Client  llm.Client
	Prompts []prompts.Template
	Config  Config

	RetryDelay time.Duration
	Now        func() time.Time
}

// NewService constructs a Service.
func NewService(cfg Config, repo drafts.Repo, ledger *usage.Service, client llm.Client) *Service {
	return &Service{
		Drafts:     repo,
		Usage:      ledger,
		Client:     client,
		Config:     cfg,
		RetryDelay: llm.DefaultRetryDelay,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// Generate runs one generation and returns the persisted draft. Request problems are
// returned as *ValidationError before anything is stored. Model failures and the token
// cap do not return an error: the draft is stored in Error status with the reason.
func (s *Service) Generate(ctx context.Context, req Request) (drafts.Draft, error) {
	if err := validateRequest(req); err != nil {
		return drafts.Draft{}, err
	}
	if !req.Job.IsOpen() {
		return drafts.Draft{}, fmt.Errorf("%w: status %s", ErrJobClosed, req.Job.Status)
	}

	startedAt := time.Now()
	tpl, custom := s.template(req)
	targets := assemble.RoleTargets(req.Consultant.Experience)
	jobText := strings.TrimSpace(req.Job.Title + "\n" + req.Job.Description)
	jobKeywords := keywords.Extract(jobText, promptKeywords)

	system, user := tpl.Render(prompts.BuildVars(req.Consultant, req.Job, roleKeys(targets), jobKeywords))
	payload := drafts.PromptPayload{
		Model:           s.modelName(),
		System:          system,
		User:            user,
		Temperature:     s.Config.Temperature,
		MaxOutputTokens: s.Config.MaxOutputTokens,
	}
	if custom {
		payload.Temperature = tpl.Temperature
		payload.MaxOutputTokens = tpl.MaxOutputTokens
	}

	d, err := s.Drafts.Create(ctx, drafts.Draft{
		ID:           uuid.NewString(),
		ConsultantID: req.Consultant.ID,
		JobID:        req.Job.ID,
		Status:       drafts.StatusProcessing,
		Prompt:       payload,
		InputSummary: drafts.InputSummary{
			JobTitle:       req.Job.Title,
			Company:        req.Job.Company,
			ConsultantName: req.Consultant.Name,
			Roles:          len(targets),
			Skills:         len(req.Consultant.Skills),
			Certifications: len(req.Consultant.Certifications),
			Keywords:       len(jobKeywords),
		},
		CreatedAt: s.now(),
	})
	if err != nil {
		return drafts.Draft{}, fmt.Errorf("create draft: %w", err)
	}
	s.logStatus(d, "", drafts.StatusProcessing, startedAt)

	if s.Usage != nil {
		reached, err := s.Usage.CapReached(ctx, s.Config.MonthlyTokenCap, s.now())
		if err != nil {
			return s.fail(ctx, d, fmt.Errorf("usage lookup: %w", err), startedAt)
		}
		if reached {
			s.record(ctx, usage.Record{
				DraftID:  d.ID,
				Provider: s.providerName(),
				Model:    payload.Model,
				Error:    usage.ErrCapReached.Error(),
			})
			return s.fail(ctx, d, usage.ErrCapReached, startedAt)
		}
	}

	run := &attempts{svc: s, ctx: ctx, draftID: d.ID}
	var generated assemble.Generated
	if s.Client == nil {
		s.record(ctx, usage.Record{DraftID: d.ID, Provider: MockModel, Model: MockModel, Success: true})
	} else {
		resp, err := s.complete(ctx, run, payload, user)
		if err != nil {
			d.TokensUsed = int(run.tokens)
			return s.fail(ctx, d, fmt.Errorf("llm generate: %w", err), startedAt)
		}
		generated = parseGenerated(d.ID, resp.Content)
	}

	in := assemble.Input{Profile: req.Consultant, Job: req.Job, Generated: generated, Now: s.now()}
	res := assemble.Assemble(in)
	report := validate.Validate(res.Content)

	if s.Client != nil && report.HasCountErrors() {
		payload.Repair = repairInstructions(report, targets)
		metrics.IncRepair()
		telemetry.Info("generation.repair", map[string]any{
			"draft_id": d.ID,
			"errors":   len(report.Errors),
		})
		resp, err := s.complete(ctx, run, payload, user+"\n\n"+payload.Repair)
		if err != nil {
			telemetry.Warn("generation.repair_failed", map[string]any{
				"draft_id": d.ID,
				"err":      err,
			})
		} else if repaired := parseGenerated(d.ID, resp.Content); !repaired.Empty() {
			in.Generated = repaired
			res = assemble.Assemble(in)
			report = validate.Validate(res.Content)
		}
	}

	d.Status = drafts.StatusDraft
	if !report.OK() {
		d.Status = drafts.StatusReview
	}
	d.Content = res.Content
	d.Bullets = res.Bullets
	d.ValidationErrors = report.Errors
	d.ValidationWarnings = append(append([]string{}, report.Warnings...), res.Warnings...)
	d.ATSScore = ats.Score(jobText, res.Content)
	d.TokensUsed = int(run.tokens)
	d.Prompt = payload
	if err := s.Drafts.Update(ctx, d); err != nil {
		return drafts.Draft{}, fmt.Errorf("update draft: %w", err)
	}

	metrics.IncGeneration(string(d.Status))
	metrics.ObserveGenerationDuration(time.Since(startedAt))
	s.logStatus(d, drafts.StatusProcessing, d.Status, startedAt)
	return s.Drafts.Get(ctx, d.ID)
}

// Check is the result of an ad-hoc validation.
type Check struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	ATSScore *int     `json:"atsScore,omitempty"`
	Missing  []string `json:"missingKeywords,omitempty"`
}

// Validate checks arbitrary resume text. The ATS score is computed only when jobText
// is given.
func (s *Service) Validate(content, jobText string) Check {
	report := validate.Validate(content)
	out := Check{Errors: report.Errors, Warnings: report.Warnings}
	if strings.TrimSpace(jobText) != "" {
		score := ats.Score(jobText, content)
		out.ATSScore = &score
		out.Missing = ats.Missing(jobText, content)
	}
	return out
}

func (s *Service) template(req Request) (prompts.Template, bool) {
	if req.Prompt != nil {
		return *req.Prompt, true
	}
	tpl := prompts.Resolve(s.Config.PromptID, s.Prompts)
	if tpl.ID == "" {
		return tpl, false
	}
	if err := tpl.Check(); err != nil {
		telemetry.Warn("generation.prompt_invalid", map[string]any{
			"promptId": tpl.ID,
			"error":    err.Error(),
		})
		return prompts.Default(), false
	}
	return tpl, true
}

// complete sends one model request under the configured timeout. Transport retries
// happen only when Config.TransportRetries is set.
func (s *Service) complete(ctx context.Context, run *attempts, p drafts.PromptPayload, user string) (llm.Response, error) {
	if s.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.RequestTimeout)
		defer cancel()
	}
	client := &llm.Retrying{
		Base:      s.Client,
		Retries:   s.Config.TransportRetries,
		Delay:     s.RetryDelay,
		OnAttempt: run.observe,
	}
	var msgs []llm.Message
	if strings.TrimSpace(p.System) != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: p.System})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: user})
	return client.Complete(ctx, llm.Request{
		Model:       p.Model,
		Messages:    msgs,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxOutputTokens,
	})
}

// fail stores d in Error status. The returned error is non-nil only when that update
// itself fails.
func (s *Service) fail(ctx context.Context, d drafts.Draft, cause error, startedAt time.Time) (drafts.Draft, error) {
	d.Status = drafts.StatusError
	d.Error = util.SanitizeError(cause.Error())
	if err := s.Drafts.Update(context.WithoutCancel(ctx), d); err != nil {
		telemetry.Error("generation.fail_update", map[string]any{
			"draft_id": d.ID,
			"err":      err,
			"cause":    cause,
		})
		return drafts.Draft{}, fmt.Errorf("update draft: %w", err)
	}
	metrics.IncGeneration(string(drafts.StatusError))
	metrics.ObserveGenerationDuration(time.Since(startedAt))
	s.logStatus(d, drafts.StatusProcessing, drafts.StatusError, startedAt)
	return s.Drafts.Get(context.WithoutCancel(ctx), d.ID)
}

func (s *Service) record(ctx context.Context, r usage.Record) {
	if s.Usage == nil {
		return
	}
	if _, err := s.Usage.Record(context.WithoutCancel(ctx), r); err != nil {
		telemetry.Warn("usage.record_failed", map[string]any{
			"draft_id": r.DraftID,
			"model":    r.Model,
			"err":      err,
		})
	}
}

func (s *Service) logStatus(d drafts.Draft, from, to drafts.Status, startedAt time.Time) {
	fields := map[string]any{
		"draft_id":      d.ID,
		"consultant_id": d.ConsultantID,
		"job_id":        d.JobID,
		"version":       d.Version,
		"status":        string(to),
	}
	if from != "" {
		fields["status_transition"] = string(from) + "->" + string(to)
		fields["duration_ms"] = time.Since(startedAt).Milliseconds()
	}
	if d.Error != "" {
		fields["error"] = d.Error
	}
	telemetry.Info("generation.status", fields)
}

func (s *Service) modelName() string {
	if s.Client == nil || strings.TrimSpace(s.Config.Model) == "" {
		return MockModel
	}
	return s.Config.Model
}

func (s *Service) providerName() string {
	if s.Client == nil {
		return MockModel
	}
	return s.Client.Provider()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// attempts accounts every provider call of one generation.
type attempts struct {
	svc     *Service
	ctx     context.Context
	draftID string
	tokens  int64
}

func (a *attempts) observe(at llm.Attempt) {
	r := usage.Record{
		DraftID:          a.draftID,
		Provider:         a.svc.providerName(),
		Model:            at.Request.Model,
		PromptTokens:     at.Response.PromptTokens,
		CompletionTokens: at.Response.CompletionTokens,
		LatencyMS:        at.Latency.Milliseconds(),
		Success:          at.Err == nil,
	}
	if at.Err != nil {
		r.Error = util.SanitizeError(at.Err.Error())
	}
	a.tokens += at.Response.TotalTokens()
	metrics.AddTokens(at.Request.Model, at.Response.PromptTokens, at.Response.CompletionTokens)
	a.svc.record(a.ctx, r)
}

func parseGenerated(draftID, raw string) assemble.Generated {
	gen, err := llm.ParseContent(raw)
	if err != nil {
		telemetry.Warn("generation.parse_failed", map[string]any{
			"draft_id": draftID,
			"err":      err,
		})
	}
	return gen
}

func roleKeys(targets []assemble.RoleTarget) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, strings.TrimSpace(t.Experience.Title)+" || "+strings.TrimSpace(t.Experience.Company))
	}
	return out
}
