package generation

import (
	"time"

	"resume-engine/internal/shared/config"
)

// MockModel names the model recorded for generations that ran without a client.
const MockModel = "mock"

// Config holds the generation parameters. It is passed to NewService and never read
// from process state.
type Config struct {
	Provider        string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	MonthlyTokenCap int64
	RequestTimeout  time.Duration
	// PromptID selects the active stored template, by ID or name.
	PromptID string
	// TransportRetries repeats a call after a 5xx or timeout. Model failures are
	// otherwise final; the repair pass is the only second call.
	TransportRetries int
}

// ConfigFrom maps the process LLM settings to a generation Config.
func ConfigFrom(c config.LLMConfig) Config {
	return Config{
		Provider:         c.Provider,
		Model:            c.Model,
		Temperature:      c.Temperature,
		MaxOutputTokens:  c.MaxOutputTokens,
		MonthlyTokenCap:  c.MonthlyTokenCap,
		RequestTimeout:   c.Timeout,
		PromptID:         c.PromptID,
		TransportRetries: c.TransportRetries,
	}
}
