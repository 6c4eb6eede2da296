package drafts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-engine/internal/shared/server/middleware"
	"resume-engine/internal/shared/server/respond"
	"resume-engine/internal/shared/storage/object"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches draft routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/drafts", h.list)
	rg.GET("/drafts/:id", h.get)
	rg.POST("/drafts/:id/promote", h.promote)
	rg.GET("/drafts/:id/export", h.export)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DraftIDKey, id)

	d, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch draft")
		return
	}
	respond.OK(c, d)
}

func (h *Handler) list(c *gin.Context) {
	consultantID := c.Query("consultantId")
	jobID := c.Query("jobId")
	if consultantID == "" || jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "consultantId and jobId are required", nil)
		return
	}

	items, err := h.Svc.List(c.Request.Context(), consultantID, jobID)
	if err != nil {
		writeError(c, err, "failed to list drafts")
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) promote(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DraftIDKey, id)

	d, err := h.Svc.Promote(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to promote draft")
		return
	}
	c.Set(middleware.StatusTransitionKey, "->"+string(StatusFinal))
	respond.OK(c, d)
}

func (h *Handler) export(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DraftIDKey, id)

	out, err := h.Svc.Export(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to export draft")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	c.Data(http.StatusOK, object.DocxContentType, out.Data)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "draft not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_status", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
