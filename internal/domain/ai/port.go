package ai

import "context"

// Provider port (interface untuk model provider)
type Provider interface {
	// Name identifies the provider for quota accounting and diagnostics.
	Name() string
	// SupportsMultiModal reports whether the provider can analyze a raw
	// video asset alongside text.
	SupportsMultiModal() bool
	// GenerateContent runs a plain text completion and returns the raw
	// response text.
	GenerateContent(ctx context.Context, systemPrompt, prompt string) (string, error)
	// GenerateMultiModalContent runs a completion over a video asset plus
	// the text prompt. Callers fold transcript/metadata into the prompt.
	GenerateMultiModalContent(ctx context.Context, systemPrompt, prompt, assetURL string) (string, error)
}
