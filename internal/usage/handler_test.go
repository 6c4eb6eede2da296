package usage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHandlerUsageSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	svc := newTestService(now)
	if _, err := svc.Record(context.Background(), Record{Model: "gpt-4o", PromptTokens: 300, CompletionTokens: 200}); err != nil {
		t.Fatalf("record: %v", err)
	}

	router := gin.New()
	NewHandler(svc, 400).RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got Summary
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TokensUsed != 500 || got.Remaining != 0 || !got.CapReached {
		t.Fatalf("unexpected summary %+v", got)
	}
}
