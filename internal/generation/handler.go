package generation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-engine/internal/drafts"
	"resume-engine/internal/extract"
	"resume-engine/internal/prompts"
	"resume-engine/internal/shared/server/middleware"
	"resume-engine/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generations", h.generate)
	rg.POST("/validate", h.validate)
	rg.POST("/prompts/validate", h.validatePrompt)
	rg.GET("/prompts/default", h.defaultPrompt)
}

func (h *Handler) generate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if extract.LooksLikeHTML(req.Job.Description) {
		req.Job.Description = extract.HTMLToText(req.Job.Description)
	}

	d, err := h.Svc.Generate(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "generation request is invalid", verr.Errors)
		case errors.Is(err, ErrJobClosed):
			respond.Error(c, http.StatusConflict, "job_closed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate resume", nil)
		}
		return
	}
	c.Set(middleware.DraftIDKey, d.ID)
	c.Set(middleware.StatusTransitionKey, string(drafts.StatusProcessing)+"->"+string(d.Status))
	respond.JSON(c, http.StatusCreated, d)
}

type contentCheckRequest struct {
	Content        string `json:"content"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) validate(c *gin.Context) {
	var req contentCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required", nil)
		return
	}
	jobText := req.JobDescription
	if extract.LooksLikeHTML(jobText) {
		jobText = extract.HTMLToText(jobText)
	}
	respond.OK(c, h.Svc.Validate(req.Content, jobText))
}

func (h *Handler) validatePrompt(c *gin.Context) {
	var tpl prompts.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	errs := tpl.Validate()
	if errs == nil {
		errs = []prompts.FieldError{}
	}
	respond.OK(c, gin.H{"valid": len(errs) == 0, "errors": errs})
}

func (h *Handler) defaultPrompt(c *gin.Context) {
	respond.OK(c, prompts.Default())
}
