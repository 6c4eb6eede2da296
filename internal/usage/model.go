package usage

import "time"

// Cost is the dollar cost of one model call.
type Cost struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
	Total  float64 `json:"total"`
}

// Record is one model call attempt, successful or not.
type Record struct {
	ID               string    `json:"id"`
	DraftID          string    `json:"draftId,omitempty"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int64     `json:"promptTokens"`
	CompletionTokens int64     `json:"completionTokens"`
	TotalTokens      int64     `json:"totalTokens"`
	Cost             Cost      `json:"cost"`
	LatencyMS        int64     `json:"latencyMs"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Summary is the month-to-date consumption against the configured cap.
type Summary struct {
	Month      string `json:"month"`
	TokensUsed int64  `json:"tokensUsed"`
	Cap        int64  `json:"cap"`
	Remaining  int64  `json:"remaining"`
	CapReached bool   `json:"capReached"`
}

// MonthWindow returns the UTC calendar month containing t as [start, end).
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
