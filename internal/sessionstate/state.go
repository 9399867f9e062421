// Package sessionstate holds the transient per-session state used by the
// feedback trigger engine and the stores that keep it.
package sessionstate

import (
	"time"

	"github.com/Rrens/support-chat/internal/domain"
)

// Phase is the feedback lifecycle position of a live session
type Phase string

const (
	// PhaseFresh has seen no message yet
	PhaseFresh Phase = "fresh"
	// PhaseActive may fire feedback when a rule matches
	PhaseActive Phase = "active"
	// PhaseFeedbackShown never fires until ResetFeedback
	PhaseFeedbackShown Phase = "feedback_shown"
	// PhaseCooldown behaves as active once CooldownUntil has passed
	PhaseCooldown Phase = "cooldown"
)

// State is the transient record of one conversation. It is never persisted
// to the relational store.
type State struct {
	ID               string          `json:"id"`
	CaseType         domain.CaseType `json:"case_type,omitempty"`
	InteractionCount int             `json:"interaction_count"`
	StartTime        time.Time       `json:"start_time"`
	Messages         []string        `json:"messages"`
	Phase            Phase           `json:"phase"`
	CooldownUntil    time.Time       `json:"cooldown_until,omitempty"`
}

// New creates fresh state for a session first seen at now
func New(id string, now time.Time) *State {
	return &State{
		ID:        id,
		StartTime: now,
		Phase:     PhaseFresh,
	}
}

// Append records one more message and leaves the fresh phase
func (s *State) Append(text string) {
	s.Messages = append(s.Messages, text)
	s.InteractionCount++
	if s.Phase == PhaseFresh || s.Phase == "" {
		s.Phase = PhaseActive
	}
}

// CanFire reports whether the phase allows a feedback prompt at now
func (s *State) CanFire(now time.Time) bool {
	switch s.Phase {
	case PhaseFeedbackShown:
		return false
	case PhaseCooldown:
		return now.After(s.CooldownUntil)
	default:
		return true
	}
}

// MarkShown moves to feedback_shown and arms the cooldown deadline
func (s *State) MarkShown(now time.Time, cooldown time.Duration) {
	s.Phase = PhaseFeedbackShown
	s.CooldownUntil = now.Add(cooldown)
}

// ResetFeedback re-enables the rule chain after the cooldown deadline.
// It is a no-op outside feedback_shown.
func (s *State) ResetFeedback() {
	if s.Phase == PhaseFeedbackShown {
		s.Phase = PhaseCooldown
	}
}

// ExpiresAt is the absolute eviction time, independent of activity
func (s *State) ExpiresAt(ttl time.Duration) time.Time {
	return s.StartTime.Add(ttl)
}

// Tail returns a copy of the last n messages
func (s *State) Tail(n int) []string {
	start := len(s.Messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(s.Messages)-start)
	copy(out, s.Messages[start:])
	return out
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	c := *s
	c.Messages = append([]string(nil), s.Messages...)
	return &c
}
