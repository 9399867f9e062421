package llm

import "context"

// Request contains text generation parameters
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate completes the prompt with the given model
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}
