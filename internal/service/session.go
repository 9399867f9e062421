package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/Rrens/support-chat/internal/sessionstate"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultSessionExpiry is the age after which a stored session is reported expired
const DefaultSessionExpiry = 24 * time.Hour

// CreateSessionInput starts a session. An empty ID gets a generated one.
type CreateSessionInput struct {
	SessionID             string  `json:"sessionId" validate:"omitempty,notblank,max=128"`
	UserID                *string `json:"userId,omitempty"`
	WithMicroInteractions *bool   `json:"withMicroInteractions,omitempty"`
}

// UpdateTopicInput overrides the stored topic and case type
type UpdateTopicInput struct {
	SessionID string  `json:"sessionId" validate:"required,notblank,max=128"`
	Topic     *string `json:"topic,omitempty"`
	CaseType  *string `json:"caseType,omitempty" validate:"omitempty,oneof=delivery pricing exchange_return product general"`
}

// SessionService manages the session lifecycle
type SessionService struct {
	sessions     domain.SessionRepository
	interactions domain.InteractionRepository
	admin        domain.AdminRepository
	engine       FeedbackEngine
	states       sessionstate.Store
	withMicro    bool
	expiry       time.Duration
	now          func() time.Time
}

// NewSessionService creates a session service. states may be nil; when it
// can be flushed, ClearAll drops the live state too.
func NewSessionService(
	sessions domain.SessionRepository,
	interactions domain.InteractionRepository,
	admin domain.AdminRepository,
	engine FeedbackEngine,
	states sessionstate.Store,
	withMicro bool,
	expiry time.Duration,
) *SessionService {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}
	return &SessionService{
		sessions:     sessions,
		interactions: interactions,
		admin:        admin,
		engine:       engine,
		states:       states,
		withMicro:    withMicro,
		expiry:       expiry,
		now:          time.Now,
	}
}

// Create inserts the session row if it does not exist yet
func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*domain.Session, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}
	withMicro := s.withMicro
	if in.WithMicroInteractions != nil {
		withMicro = *in.WithMicroInteractions
	}

	session, err := ensureSession(ctx, s.sessions, in.SessionID, in.UserID, withMicro, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// End closes the session and drops its live state
func (s *SessionService) End(ctx context.Context, id string, abandoned bool) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.sessions.End(ctx, id, abandoned, s.now()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.cleanup(ctx, id)
	log.Info().Str("session_id", id).Bool("abandoned", abandoned).Msg("Session ended")
	return nil
}

// Abandon ends the session as abandoned
func (s *SessionService) Abandon(ctx context.Context, id string) error {
	return s.End(ctx, id, true)
}

// Resolve records the user's confirmation that the issue is solved
func (s *SessionService) Resolve(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	now := s.now()
	if err := s.sessions.MarkResolved(ctx, id, now); err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	s.record(ctx, id, domain.InteractionEndModalAnswerYes, now)
	s.cleanup(ctx, id)
	return nil
}

// NotResolved re-arms the feedback trigger after the user says the issue is open
func (s *SessionService) NotResolved(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.engine.ResetFeedback(ctx, id); err != nil {
		return fmt.Errorf("failed to reset feedback: %w", err)
	}
	s.record(ctx, id, domain.InteractionEndModalAnswerNo, s.now())
	return nil
}

// Check reports whether the session exists and is older than the expiry
func (s *SessionService) Check(ctx context.Context, id string) (*domain.SessionCheck, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.SessionCheck{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	return &domain.SessionCheck{
		Exists:  true,
		Expired: s.now().Sub(session.CreatedAt) > s.expiry,
		Session: session,
	}, nil
}

// UpdateTopic stores a topic and case type chosen outside the engine
func (s *SessionService) UpdateTopic(ctx context.Context, in UpdateTopicInput) error {
	if err := validate.Struct(in); err != nil {
		return invalid(err)
	}
	var ct *domain.CaseType
	if in.CaseType != nil {
		c := domain.CaseType(*in.CaseType)
		ct = &c
	}
	if err := s.sessions.UpdateTopic(ctx, in.SessionID, in.Topic, ct); err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return nil
}

// ClearAll deletes every persisted row and any flushable live state
func (s *SessionService) ClearAll(ctx context.Context) error {
	if err := s.admin.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	if f, ok := s.states.(sessionstate.Flusher); ok {
		n, err := f.Flush(ctx)
		if err != nil {
			return fmt.Errorf("failed to flush session state: %w", err)
		}
		log.Info().Int("states", n).Msg("Flushed live session state")
	}
	log.Warn().Msg("All chat data cleared")
	return nil
}

func (s *SessionService) cleanup(ctx context.Context, id string) {
	if err := s.engine.Cleanup(ctx, id); err != nil {
		log.Error().Err(err).Str("session_id", id).Msg("failed to clean up session state")
	}
}

func (s *SessionService) record(ctx context.Context, id, interactionType string, at time.Time) {
	err := s.interactions.Create(ctx, &domain.Interaction{
		ID:        uuid.New(),
		SessionID: id,
		Type:      interactionType,
		CreatedAt: at,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", id).Str("type", interactionType).Msg("failed to record interaction")
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: sessionId is required", domain.ErrInvalidInput)
	}
	return nil
}
