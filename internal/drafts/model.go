package drafts

import "time"

// Status is the lifecycle state of a draft.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusDraft      Status = "DRAFT"
	StatusReview     Status = "REVIEW"
	StatusFinal      Status = "FINAL"
	StatusError      Status = "ERROR"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusDraft, StatusReview, StatusFinal, StatusError:
		return true
	}
	return false
}

// Promotable reports whether a draft in status s may become Final.
func (s Status) Promotable() bool {
	return s == StatusDraft || s == StatusReview || s == StatusFinal
}

// CanUpdate reports whether an Update may move a draft from one status to another.
// Final is entered and left only through Promote.
func CanUpdate(from, to Status) bool {
	if from == to {
		return from != StatusFinal
	}
	if from != StatusProcessing {
		return false
	}
	return to == StatusDraft || to == StatusReview || to == StatusError
}

// PromptPayload is the exact request sent to the model, kept for audit.
type PromptPayload struct {
	Model           string  `json:"model"`
	System          string  `json:"system"`
	User            string  `json:"user"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Repair          string  `json:"repair,omitempty"`
}

// InputSummary is a short snapshot of what went into the prompt.
type InputSummary struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	ConsultantName string `json:"consultantName"`
	Roles          int    `json:"roles"`
	Skills         int    `json:"skills"`
	Certifications int    `json:"certifications"`
	Keywords       int    `json:"keywords"`
}

// Draft is one versioned resume attempt for a (consultant, job) pair.
type Draft struct {
	ID                 string              `json:"id"`
	ConsultantID       string              `json:"consultantId"`
	JobID              string              `json:"jobId"`
	Version            int                 `json:"version"`
	Status             Status              `json:"status"`
	Content            string              `json:"content"`
	Bullets            map[string][]string `json:"bullets,omitempty"`
	ValidationErrors   []string            `json:"validationErrors"`
	ValidationWarnings []string            `json:"validationWarnings"`
	ATSScore           int                 `json:"atsScore"`
	TokensUsed         int                 `json:"tokensUsed"`
	Prompt             PromptPayload       `json:"prompt"`
	InputSummary       InputSummary        `json:"inputSummary"`
	Error              string              `json:"error,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}
