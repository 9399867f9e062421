package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/Rrens/support-chat/internal/feedback"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Message sources reported by the widget
const (
	SourceTyped      = "typed"
	SourceSuggestion = "suggestion"
)

// UserMessageInput is one user turn
type UserMessageInput struct {
	SessionID             string  `json:"sessionId" validate:"required,notblank,max=128"`
	Text                  string  `json:"text" validate:"required,notblank"`
	Source                string  `json:"source" validate:"omitempty,oneof=typed suggestion"`
	UserID                *string `json:"userId,omitempty"`
	WithMicroInteractions *bool   `json:"withMicroInteractions,omitempty"`
}

// AssistantMessageInput is one assistant reply
type AssistantMessageInput struct {
	SessionID string `json:"sessionId" validate:"required,notblank,max=128"`
	Text      string `json:"text" validate:"required,notblank"`
}

// ChatService ingests conversation turns
type ChatService struct {
	sessions     domain.SessionRepository
	messages     domain.MessageRepository
	interactions domain.InteractionRepository
	engine       FeedbackEngine
	withMicro    bool
	now          func() time.Time
}

// NewChatService creates a chat service. withMicro is the variant flag used
// for sessions created without an explicit one.
func NewChatService(
	sessions domain.SessionRepository,
	messages domain.MessageRepository,
	interactions domain.InteractionRepository,
	engine FeedbackEngine,
	withMicro bool,
) *ChatService {
	return &ChatService{
		sessions:     sessions,
		messages:     messages,
		interactions: interactions,
		engine:       engine,
		withMicro:    withMicro,
		now:          time.Now,
	}
}

// HandleUserMessage records a user turn and returns the feedback decision.
// Persistence failures are logged and never change the decision.
func (s *ChatService) HandleUserMessage(ctx context.Context, in UserMessageInput) (feedback.Decision, error) {
	if err := validate.Struct(in); err != nil {
		return feedback.Decision{}, invalid(err)
	}
	if in.Source == "" {
		in.Source = SourceTyped
	}

	now := s.now()
	withMicro := s.withMicro
	if in.WithMicroInteractions != nil {
		withMicro = *in.WithMicroInteractions
	}

	logger := log.With().Str("session_id", in.SessionID).Logger()

	session, err := ensureSession(ctx, s.sessions, in.SessionID, in.UserID, withMicro, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to ensure session")
	}

	if err := s.messages.Create(ctx, &domain.Message{
		ID:        uuid.New(),
		SessionID: in.SessionID,
		Role:      domain.RoleUser,
		Content:   in.Text,
		CreatedAt: now,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to save user message")
	}

	interactionType := domain.InteractionTypedMessage
	if in.Source == SourceSuggestion {
		interactionType = domain.InteractionSuggestionClick
	}
	s.track(ctx, &domain.Interaction{
		SessionID: in.SessionID,
		Type:      interactionType,
		Content:   &in.Text,
		CreatedAt: now,
	})

	decision, err := s.engine.AddMessage(ctx, in.SessionID, in.Text)
	if err != nil {
		return feedback.Decision{}, fmt.Errorf("failed to evaluate message: %w", err)
	}

	if decision.ShouldShowFeedback {
		topic := decision.Topic
		ct := decision.CaseType
		if err := s.sessions.UpdateTopic(ctx, in.SessionID, strPtr(topic), &ct); err != nil {
			logger.Error().Err(err).Msg("failed to update session topic")
		}
		s.track(ctx, &domain.Interaction{
			SessionID: in.SessionID,
			Type:      domain.InteractionFeedbackTriggerPrefix + decision.Trigger,
			Content:   &in.Text,
			Topic:     strPtr(topic),
			Metadata:  map[string]any{"trigger": decision.Trigger, "case_type": string(ct)},
			CreatedAt: now,
		})
	} else if session != nil && (session.CaseType == nil || *session.CaseType != decision.CaseType) {
		ct := decision.CaseType
		if err := s.sessions.UpdateTopic(ctx, in.SessionID, nil, &ct); err != nil {
			logger.Error().Err(err).Msg("failed to update session case type")
		}
	}

	return decision, nil
}

// RecordAssistantMessage persists an assistant reply
func (s *ChatService) RecordAssistantMessage(ctx context.Context, in AssistantMessageInput) (*domain.Message, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	now := s.now()
	if _, err := ensureSession(ctx, s.sessions, in.SessionID, nil, s.withMicro, now); err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		SessionID: in.SessionID,
		Role:      domain.RoleAssistant,
		Content:   in.Text,
		CreatedAt: now,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}
	return msg, nil
}

func (s *ChatService) track(ctx context.Context, interaction *domain.Interaction) {
	interaction.ID = uuid.New()
	if err := s.interactions.Create(ctx, interaction); err != nil {
		log.Error().Err(err).
			Str("session_id", interaction.SessionID).
			Str("type", interaction.Type).
			Msg("failed to record interaction")
	}
}
