package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/google/uuid"
)

// FeedbackInput is a submitted survey. Confidence defaults to 5.
type FeedbackInput struct {
	SessionID    string  `json:"sessionId" validate:"required,notblank,max=128"`
	Satisfaction int     `json:"satisfaction" validate:"required,min=1,max=5"`
	Confidence   *int    `json:"confidence,omitempty" validate:"omitempty,min=1,max=5"`
	Comment      *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// VoteInput rates one assistant message
type VoteInput struct {
	ChatID    string `json:"chatId" validate:"required,notblank,max=128"`
	MessageID string `json:"messageId" validate:"required,notblank,max=128"`
	Type      string `json:"type" validate:"required,oneof=up down"`
}

// InteractionInput is an arbitrary widget event
type InteractionInput struct {
	SessionID       string         `json:"sessionId" validate:"required,notblank,max=128"`
	InteractionType string         `json:"interactionType" validate:"required,max=64"`
	Content         *string        `json:"content,omitempty"`
	Topic           *string        `json:"topic,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// FeedbackService records surveys, votes and widget events
type FeedbackService struct {
	sessions     domain.SessionRepository
	feedback     domain.FeedbackRepository
	votes        domain.VoteRepository
	interactions domain.InteractionRepository
	withMicro    bool
	now          func() time.Time
}

func NewFeedbackService(
	sessions domain.SessionRepository,
	feedback domain.FeedbackRepository,
	votes domain.VoteRepository,
	interactions domain.InteractionRepository,
	withMicro bool,
) *FeedbackService {
	return &FeedbackService{
		sessions:     sessions,
		feedback:     feedback,
		votes:        votes,
		interactions: interactions,
		withMicro:    withMicro,
		now:          time.Now,
	}
}

// SubmitFeedback stores a survey answer; duplicates per session are allowed
func (s *FeedbackService) SubmitFeedback(ctx context.Context, in FeedbackInput) (*domain.Feedback, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	now := s.now()
	if _, err := ensureSession(ctx, s.sessions, in.SessionID, nil, s.withMicro, now); err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}

	confidence := domain.DefaultConfidence
	if in.Confidence != nil {
		confidence = *in.Confidence
	}

	fb := &domain.Feedback{
		ID:           uuid.New(),
		SessionID:    in.SessionID,
		Satisfaction: in.Satisfaction,
		Confidence:   confidence,
		Comment:      in.Comment,
		CreatedAt:    now,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return fb, nil
}

// Vote upserts the rating of one message
func (s *FeedbackService) Vote(ctx context.Context, in VoteInput) (*domain.Vote, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	now := s.now()
	if _, err := ensureSession(ctx, s.sessions, in.ChatID, nil, s.withMicro, now); err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}

	vote := &domain.Vote{
		ChatID:    in.ChatID,
		MessageID: in.MessageID,
		IsUpvoted: in.Type == "up",
		CreatedAt: now,
	}
	if err := s.votes.Upsert(ctx, vote); err != nil {
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}
	return vote, nil
}

// ListVotes returns the votes of a chat, never nil
func (s *FeedbackService) ListVotes(ctx context.Context, chatID string) ([]domain.Vote, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("%w: chatId is required", domain.ErrInvalidInput)
	}
	votes, err := s.votes.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	if votes == nil {
		votes = []domain.Vote{}
	}
	return votes, nil
}

// TrackInteraction records a widget event, creating the session row if needed
func (s *FeedbackService) TrackInteraction(ctx context.Context, in InteractionInput) (*domain.Interaction, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	now := s.now()
	if _, err := ensureSession(ctx, s.sessions, in.SessionID, nil, s.withMicro, now); err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}

	interaction := &domain.Interaction{
		ID:        uuid.New(),
		SessionID: in.SessionID,
		Type:      in.InteractionType,
		Content:   in.Content,
		Topic:     in.Topic,
		Metadata:  in.Metadata,
		CreatedAt: now,
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}
	return interaction, nil
}
