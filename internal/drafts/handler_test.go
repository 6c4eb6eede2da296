package drafts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHandlerGetAndNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	seedDraft(t, repo, "d-1", StatusReview)
	router := newTestRouter(&Service{Repo: repo})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/d-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got Draft
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusReview || got.Version != 1 {
		t.Fatalf("unexpected draft %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/drafts/missing", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHandlerListRequiresPair(t *testing.T) {
	router := newTestRouter(&Service{Repo: NewMemoryRepo()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts?consultantId=c-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerPromoteConflictOnErrorDraft(t *testing.T) {
	repo := NewMemoryRepo()
	seedDraft(t, repo, "d-1", StatusError)
	router := newTestRouter(&Service{Repo: repo})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-1/promote", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "invalid_status") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestHandlerExportDownload(t *testing.T) {
	repo := NewMemoryRepo()
	seedDraft(t, repo, "d-1", StatusDraft)
	router := newTestRouter(&Service{Repo: repo, Store: newMemStore()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/d-1/export", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "Jordan_Lee_v1.docx") {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if !strings.HasPrefix(resp.Body.String(), "PK") {
		t.Fatalf("expected zip payload")
	}
}
