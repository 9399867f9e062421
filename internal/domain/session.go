package domain

import (
	"context"
	"time"
)

// Session represents one visitor conversation with the support widget
type Session struct {
	ID                    string     `json:"id"`
	UserID                *string    `json:"user_id,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	Abandoned             bool       `json:"abandoned"`
	Resolved              bool       `json:"resolved"`
	WithMicroInteractions bool       `json:"with_micro_interactions"`
	Topic                 *string    `json:"topic,omitempty"`
	CaseType              *CaseType  `json:"case_type,omitempty"`
}

// IsAbandoned applies the dashboard abandonment rule: explicit abandonment or
// an unterminated session older than abandonAfter. A resolved session is
// never counted as abandoned.
func (s *Session) IsAbandoned(now time.Time, abandonAfter time.Duration) bool {
	if s.Resolved {
		return false
	}
	if s.Abandoned {
		return true
	}
	return s.EndedAt == nil && s.CreatedAt.Before(now.Add(-abandonAfter))
}

// Duration returns the recorded session length; ok is false for open sessions
func (s *Session) Duration() (time.Duration, bool) {
	if s.EndedAt == nil {
		return 0, false
	}
	d := s.EndedAt.Sub(s.CreatedAt)
	if d < 0 {
		d = 0
	}
	return d, true
}

// SessionCheck is the answer to a session liveness probe
type SessionCheck struct {
	Exists  bool     `json:"exists"`
	Expired bool     `json:"expired"`
	Session *Session `json:"session,omitempty"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	// Create inserts the session unless a row with the same id exists
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	UpdateTopic(ctx context.Context, id string, topic *string, caseType *CaseType) error
	// End sets ended_at once; later calls only update the abandoned flag
	End(ctx context.Context, id string, abandoned bool, at time.Time) error
	MarkResolved(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
