package feedback

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// FallbackTopic is used whenever topic extraction fails or is disabled
	FallbackTopic = "general conversation"
	// TopicExcerptMessages is how many trailing messages feed the extractor
	TopicExcerptMessages = 6
)

// TopicExtractor produces a short human-readable topic for a conversation excerpt
type TopicExtractor interface {
	ExtractTopic(ctx context.Context, excerpt string) (string, error)
}

// TopicExtractorFunc adapts a function to TopicExtractor
type TopicExtractorFunc func(ctx context.Context, excerpt string) (string, error)

func (f TopicExtractorFunc) ExtractTopic(ctx context.Context, excerpt string) (string, error) {
	return f(ctx, excerpt)
}

func (e *Engine) extractTopic(ctx context.Context, sessionID string, messages []string) (topic string) {
	if e.extractor == nil {
		return FallbackTopic
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("session_id", sessionID).Interface("panic", r).Msg("Topic extractor panicked")
			topic = FallbackTopic
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.topicTimeout)
	defer cancel()

	topic, err := e.extractor.ExtractTopic(ctx, strings.Join(messages, "\n"))
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Topic extraction failed, using fallback")
		return FallbackTopic
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return FallbackTopic
	}
	return topic
}
