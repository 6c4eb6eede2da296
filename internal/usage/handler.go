package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-engine/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
	Cap int64
}

// NewHandler constructs a Handler reporting against the monthly token cap.
func NewHandler(svc *Service, monthlyCap int64) *Handler {
	return &Handler{Svc: svc, Cap: monthlyCap}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
	rg.GET("/usage/drafts/:id", h.draftUsage)
}

func (h *Handler) getUsage(c *gin.Context) {
	summary, err := h.Svc.Summarize(c.Request.Context(), h.Cap, h.Svc.now())
	if err != nil {
		writeError(c, err, "failed to fetch usage")
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) draftUsage(c *gin.Context) {
	records, err := h.Svc.ForDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch draft usage")
		return
	}
	respond.OK(c, gin.H{"items": records})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
