// Package uploads accepts resume files over multipart HTTP and reports how they fare
// against the structural rules and, optionally, a job description.
package uploads

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-engine/internal/extract"
	"resume-engine/internal/shared/server/respond"
	"resume-engine/internal/shared/storage/object"
	"resume-engine/internal/shared/telemetry"
	"resume-engine/internal/shared/util"
	"resume-engine/resume/ats"
	"resume-engine/resume/validate"
)

const (
	maxUploadBytes = 5 << 20
	uploadsPrefix  = "uploads"
)

var allowedContentTypes = map[string]struct{}{
	extract.MimePDF:   {},
	extract.MimeDOCX:  {},
	extract.MimeHTML:  {},
	extract.MimePlain: {},
}

// Handler serves POST /uploads/check. Store is optional; when set the original file is
// kept under uploads/<id>/<name>.
type Handler struct {
	Store object.ObjectStore
}

func NewHandler(store object.ObjectStore) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/check", h.check)
}

type checkResponse struct {
	ID              string   `json:"id"`
	FileName        string   `json:"fileName"`
	ContentType     string   `json:"contentType"`
	StorageKey      string   `json:"storageKey,omitempty"`
	Text            string   `json:"text"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	ATSScore        *int     `json:"atsScore,omitempty"`
	MissingKeywords []string `json:"missingKeywords,omitempty"`
}

func (h *Handler) check(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<10)
	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fh.Size <= 0 || fh.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds size limit", nil)
		return
	}
	name, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	contentType := baseContentType(fh.Header.Get("Content-Type"))
	if _, ok := allowedContentTypes[contentType]; !ok {
		contentType = ""
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil)
		return
	}

	ctx := c.Request.Context()
	text, err := extract.FromBytes(ctx, data, contentType, name)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file", "file type is not supported", nil)
			return
		}
		telemetry.Warn("uploads.extract.failed", map[string]any{
			"err":        err.Error(),
			"file":       name,
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "no text could be extracted", nil)
		return
	}

	resp := checkResponse{
		ID:          uuid.NewString(),
		FileName:    name,
		ContentType: contentType,
		Text:        text,
	}
	report := validate.Validate(text)
	resp.Errors = nonNil(report.Errors)
	resp.Warnings = nonNil(report.Warnings)

	if jobText := strings.TrimSpace(c.PostForm("jobDescription")); jobText != "" {
		if extract.LooksLikeHTML(jobText) {
			jobText = extract.HTMLToText(jobText)
		}
		score := ats.Score(jobText, text)
		resp.ATSScore = &score
		resp.MissingKeywords = ats.Missing(jobText, text)
	}

	if h.Store != nil {
		key := path.Join(uploadsPrefix, resp.ID, name)
		storeType := contentType
		if storeType == "" {
			storeType = "application/octet-stream"
		}
		if _, err := h.Store.SaveWithKey(ctx, key, storeType, bytes.NewReader(data)); err != nil {
			telemetry.Error("uploads.save.failed", map[string]any{
				"err":        err.Error(),
				"key":        key,
				"request_id": c.GetString("requestId"),
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
			return
		}
		resp.StorageKey = key
	}

	respond.JSON(c, http.StatusOK, resp)
}

func baseContentType(raw string) string {
	ct, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
