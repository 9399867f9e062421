package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// TopicExtractor asks an LLM provider for a short conversation topic
type TopicExtractor struct {
	router   *Router
	provider string
	model    string
}

// NewTopicExtractor uses the router's default provider when provider is empty
func NewTopicExtractor(router *Router, provider, model string) *TopicExtractor {
	return &TopicExtractor{router: router, provider: provider, model: model}
}

// ExtractTopic implements feedback.TopicExtractor
func (e *TopicExtractor) ExtractTopic(ctx context.Context, excerpt string) (string, error) {
	provider, err := e.router.GetProvider(e.provider)
	if err != nil {
		return "", err
	}

	resp, err := provider.Generate(ctx, Request{
		System:      TopicSystemPrompt,
		Prompt:      BuildTopicPrompt(excerpt),
		MaxTokens:   30,
		Temperature: 0,
	}, e.model)
	if err != nil {
		return "", fmt.Errorf("failed to extract topic: %w", err)
	}

	topic := CleanTopic(resp.Text)
	if topic == "" {
		return "", fmt.Errorf("provider %s returned an empty topic", provider.Name())
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int64("latency_ms", resp.LatencyMs).
		Str("topic", topic).
		Msg("Topic extracted")

	return topic, nil
}
