// Package service implements the application use cases on top of the
// repositories and the feedback trigger engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/Rrens/support-chat/internal/feedback"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

// newValidator registers notblank, which rejects whitespace-only strings
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// FeedbackEngine is the part of feedback.Engine the services drive
type FeedbackEngine interface {
	AddMessage(ctx context.Context, sessionID, text string) (feedback.Decision, error)
	ResetFeedback(ctx context.Context, sessionID string) error
	Cleanup(ctx context.Context, sessionID string) error
}

// invalid wraps validation failures as domain.ErrInvalidInput
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Errorf("%w: %s failed on %s", domain.ErrInvalidInput, f.Field(), f.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// ensureSession returns the session row for id, creating it when absent
func ensureSession(ctx context.Context, repo domain.SessionRepository, id string, userID *string, withMicro bool, now time.Time) (*domain.Session, error) {
	s, err := repo.Get(ctx, id)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	s = &domain.Session{
		ID:                    id,
		UserID:                userID,
		CreatedAt:             now,
		UpdatedAt:             now,
		WithMicroInteractions: withMicro,
	}
	if err := repo.Create(ctx, s); err != nil {
		return nil, err
	}
	log.Debug().Str("session_id", id).Bool("with_micro_interactions", withMicro).Msg("Session created")
	return s, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
