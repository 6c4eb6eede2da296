// Package llm defines the model boundary used by generation: a provider-neutral
// request/response pair, typed failures, a retrying transport and the parser that turns
// model text into structured resume content.
package llm

import "context"

// Roles used in Message.Role.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// Request is a single completion call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Response is the provider's text answer and token usage.
type Response struct {
	Content          string
	Model            string
	PromptTokens     int64
	CompletionTokens int64
}

// TotalTokens returns prompt plus completion tokens.
func (r Response) TotalTokens() int64 {
	return r.PromptTokens + r.CompletionTokens
}

// Client abstracts model providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	// Provider names the backend for usage accounting.
	Provider() string
}
