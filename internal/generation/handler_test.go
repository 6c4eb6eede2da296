package generation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-engine/internal/drafts"
	"resume-engine/internal/shared/server/respond"
	"resume-engine/resume/model"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerGenerateCreatesDraft(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	router := newTestRouter(svc)

	req := devopsRequest()
	req.Job.Description = "<p>" + req.Job.Description + "</p><script>x()</script>"
	resp := postJSON(t, router, "/api/v1/generations", req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var d drafts.Draft
	if err := json.Unmarshal(resp.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Version != 1 || d.Status != drafts.StatusDraft {
		t.Fatalf("unexpected draft %+v", d)
	}
	if strings.Contains(d.Prompt.User, "<p>") || strings.Contains(d.Prompt.User, "x()") {
		t.Fatalf("html should be stripped from the job description: %q", d.Prompt.User)
	}
}

func TestHandlerGenerateValidationErrors(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	router := newTestRouter(svc)

	resp := postJSON(t, router, "/api/v1/generations", Request{Job: model.JobPosting{ID: "job-1"}})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	var body respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	details, ok := body.Error.Details.([]any)
	if body.Error.Code != "validation_error" || !ok || len(details) == 0 {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestHandlerGenerateClosedJob(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	router := newTestRouter(svc)
	req := devopsRequest()
	req.Job.Status = model.JobClosed

	resp := postJSON(t, router, "/api/v1/generations", req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestHandlerGenerateRejectsMalformedJSON(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generations", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerValidate(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	router := newTestRouter(svc)

	resp := postJSON(t, router, "/api/v1/validate", map[string]string{
		"content":        "Jordan Lee\n\nSkills\nCloud: AWS\n",
		"jobDescription": "AWS, Terraform",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out Check
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Errors) == 0 || out.ATSScore == nil {
		t.Fatalf("unexpected check %+v", out)
	}

	resp = postJSON(t, router, "/api/v1/validate", map[string]string{"content": " "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", resp.Code)
	}
}

func TestHandlerValidatePrompt(t *testing.T) {
	svc, _, _ := newTestService(t, nil, Config{})
	router := newTestRouter(svc)

	resp := postJSON(t, router, "/api/v1/prompts/validate", map[string]any{
		"name":            "Short",
		"templateText":    "Hello {consultant_name}",
		"temperature":     0.5,
		"maxOutputTokens": 500,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Valid || len(out.Errors) == 0 || out.Errors[0].Field != "templateText" {
		t.Fatalf("unexpected result %+v", out)
	}
}
