package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"resume-engine/internal/llm"
)

const providerName = "openai"

// Client implements llm.Client using OpenAI Chat Completions. BaseURL may point at any
// OpenAI-compatible endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// Options configures NewClient.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient constructs a new OpenAI client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		// Retrying owns the retry policy.
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	return &Client{
		client: openai.NewClient(reqOpts...),
		model:  opts.Model,
	}, nil
}

func (c *Client) Provider() string {
	return providerName
}

// Complete sends the messages as one chat completion.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(messages),
		Model:       openai.F(openai.ChatModel(model)),
		Temperature: openai.F(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.F(int64(req.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Response{}, llm.Wrap(providerName, statusOf(err), err)
	}
	if len(completion.Choices) == 0 {
		return llm.Response{}, llm.Wrap(providerName, 0, llm.ErrEmptyResponse)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	resp := llm.Response{
		Content:          content,
		Model:            completion.Model,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}
	if resp.Model == "" {
		resp.Model = model
	}
	if content == "" {
		return resp, llm.Wrap(providerName, 0, llm.ErrEmptyResponse)
	}
	return resp, nil
}

func statusOf(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

var _ llm.Client = (*Client)(nil)
