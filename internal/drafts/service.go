package drafts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"resume-engine/internal/shared/storage/object"
	"resume-engine/internal/shared/telemetry"
	"resume-engine/resume/render"
)

// Export is a rendered Word document for one draft.
type Export struct {
	FileName string
	Key      string
	Data     []byte
}

// Service contains read, promotion and export logic for drafts.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// Get returns a draft by ID.
func (s *Service) Get(ctx context.Context, id string) (Draft, error) {
	if strings.TrimSpace(id) == "" {
		return Draft{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, id)
}

// List returns the pair's drafts, newest version first.
func (s *Service) List(ctx context.Context, consultantID, jobID string) ([]Draft, error) {
	if strings.TrimSpace(consultantID) == "" || strings.TrimSpace(jobID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByPair(ctx, consultantID, jobID)
}

// Promote marks a draft Final, demoting the pair's previous Final.
func (s *Service) Promote(ctx context.Context, id string) (Draft, error) {
	if strings.TrimSpace(id) == "" {
		return Draft{}, ErrInvalidInput
	}
	d, err := s.Repo.Promote(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	telemetry.Info("draft.promoted", map[string]any{
		"draft_id":      d.ID,
		"consultant_id": d.ConsultantID,
		"job_id":        d.JobID,
		"version":       d.Version,
	})
	return d, nil
}

// Export renders the draft as DOCX. When a store is configured the rendered file is
// cached under its export key and later exports of the same version read it back.
func (s *Service) Export(ctx context.Context, id string) (Export, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Export{}, err
	}
	if d.Status == StatusProcessing || d.Status == StatusError || strings.TrimSpace(d.Content) == "" {
		return Export{}, ErrInvalidTransition
	}

	key, err := object.ExportKey(d.ConsultantID, d.JobID, d.Version)
	if err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out := Export{FileName: exportFileName(d), Key: key}

	if s.Store != nil {
		if data, err := s.readCached(ctx, key); err == nil {
			out.Data = data
			return out, nil
		} else if !errors.Is(err, object.ErrNotExist) {
			return Export{}, err
		}
	}

	data, err := render.DOCX(d.Content)
	if err != nil {
		return Export{}, fmt.Errorf("render draft %s: %w", d.ID, err)
	}
	out.Data = data

	if s.Store != nil {
		if _, err := s.Store.SaveWithKey(ctx, key, object.DocxContentType, bytes.NewReader(data)); err != nil {
			telemetry.Error("draft.export_cache_failed", map[string]any{
				"draft_id": d.ID,
				"key":      key,
				"err":      err,
			})
		}
	}
	return out, nil
}

func (s *Service) readCached(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func exportFileName(d Draft) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, firstLine(d.Content))
	if base == "" {
		base = "resume"
	}
	return fmt.Sprintf("%s_v%d.docx", base, d.Version)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
