package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
)

const maxTokens = 4096

// Client adapts one OpenAI-compatible chat endpoint to the provider port.
// Providers with an OpenAI-compatible API (configured via Endpoint) reuse the
// same adapter.
type Client struct {
	api         *openai.Client
	name        string
	model       string
	visionModel string
	multiModal  bool
}

type Config struct {
	Name        string
	APIKey      string
	Endpoint    string // optional; empty means the default OpenAI base URL
	Model       string
	VisionModel string // optional; falls back to Model
	MultiModal  bool
}

func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = cfg.Endpoint
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	vision := cfg.VisionModel
	if vision == "" {
		vision = model
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		name:        cfg.Name,
		model:       model,
		visionModel: vision,
		multiModal:  cfg.MultiModal,
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) SupportsMultiModal() bool { return c.multiModal }

func (c *Client) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	applyTokenLimit(&req)
	return c.complete(ctx, req)
}

func (c *Client) GenerateMultiModalContent(ctx context.Context, systemPrompt, userPrompt, assetURL string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: userPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: assetURL},
					},
				},
			},
		},
	}
	applyTokenLimit(&req)
	return c.complete(ctx, req)
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ai.TransientError{Cause: errors.New("empty choices in completion response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// mapError menerjemahkan error API ke taxonomy domain: 429 dianggap kuota
// habis (terminal untuk provider ini hari ini), 5xx dan error jaringan
// dianggap transient.
func (c *Client) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return fmt.Errorf("%s: %w", c.name, ai.ErrQuotaExceeded)
		case apiErr.HTTPStatusCode >= 500:
			return &ai.TransientError{Cause: err}
		default:
			return fmt.Errorf("chat completion: %w", err)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &ai.TransientError{Cause: err}
	}
	return fmt.Errorf("chat completion: %w", err)
}

// Untuk reasoning model (o1/o3/o4/gpt-5*) pakai MaxCompletionTokens, bukan MaxTokens
func applyTokenLimit(req *openai.ChatCompletionRequest) {
	if strings.HasPrefix(req.Model, "o1") || strings.HasPrefix(req.Model, "o3") || strings.HasPrefix(req.Model, "o4") || strings.HasPrefix(req.Model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
}
