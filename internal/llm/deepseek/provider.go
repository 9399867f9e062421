package deepseek

import (
	"github.com/Rrens/support-chat/internal/llm/openai"
)

// Provider implements llm.Provider for DeepSeek over its OpenAI-compatible API
type Provider struct {
	*openai.Provider
}

// NewProvider creates a new DeepSeek provider
func NewProvider(apiKey, defaultModel string) *Provider {
	if defaultModel == "" {
		defaultModel = "deepseek-chat"
	}
	return &Provider{
		Provider: openai.NewCompatible("deepseek", "https://api.deepseek.com/v1", apiKey, defaultModel),
	}
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"deepseek-chat",
		"deepseek-reasoner",
	}
}
