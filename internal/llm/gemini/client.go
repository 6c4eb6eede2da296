package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"resume-engine/internal/llm"
)

const providerName = "gemini"

// Client implements llm.Client for Google Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Provider() string {
	return providerName
}

// Complete folds system messages into the model's system instruction and sends the user
// turns as one prompt.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	name := req.Model
	if strings.TrimSpace(name) == "" {
		name = c.model
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	system, user := splitMessages(req.Messages)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return llm.Response{}, llm.Wrap(providerName, statusOf(err), err)
	}

	out := llm.Response{Model: name}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int64(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	text, err := extractText(resp)
	if err != nil {
		return out, llm.Wrap(providerName, 0, err)
	}
	out.Content = text
	return out, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func splitMessages(messages []llm.Message) (string, string) {
	var system, user []string
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		user = append(user, m.Content)
	}
	return strings.Join(system, "\n\n"), strings.Join(user, "\n\n")
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", llm.ErrEmptyResponse
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", llm.ErrEmptyResponse
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func statusOf(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

var _ llm.Client = (*Client)(nil)
