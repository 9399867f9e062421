// Package feedback decides when a support conversation should be interrupted
// with a satisfaction survey.
package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/Rrens/support-chat/internal/sessionstate"
	"github.com/rs/zerolog/log"
)

// Trigger labels reported with a positive decision
const (
	TriggerNegativeSignal       = "negative_signal"
	TriggerResolutionDetected   = "resolution_detected"
	TriggerInteractionThreshold = "interaction_threshold"
)

const (
	DefaultCooldown     = 10 * time.Minute
	DefaultTopicTimeout = 5 * time.Second
)

// Decision is the engine's answer for one user turn
type Decision struct {
	ShouldShowFeedback bool            `json:"should_show_feedback"`
	CaseType           domain.CaseType `json:"case_type"`
	Trigger            string          `json:"trigger,omitempty"`
	Topic              string          `json:"topic,omitempty"`
}

// EngineConfig holds the tunables of the engine
type EngineConfig struct {
	Cooldown     time.Duration
	TopicTimeout time.Duration
	// Extractor is optional; without it fired decisions carry FallbackTopic
	Extractor TopicExtractor
}

type classifier interface {
	Classify(text string) domain.CaseType
}

// Engine is safe for concurrent use. Turns for the same session are
// serialized in-process; across processes sharing a Redis store it relies on
// the transport routing each session to a single writer.
type Engine struct {
	store        sessionstate.Store
	rules        TriggerTable
	classifier   classifier
	analyze      func(messages []string) Signals
	extractor    TopicExtractor
	cooldown     time.Duration
	topicTimeout time.Duration
	locks        *keyMutex
	now          func() time.Time
}

// NewEngine creates an engine over store using rules
func NewEngine(store sessionstate.Store, rules TriggerTable, cfg EngineConfig) *Engine {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.TopicTimeout <= 0 {
		cfg.TopicTimeout = DefaultTopicTimeout
	}
	return &Engine{
		store:        store,
		rules:        rules,
		classifier:   NewClassifier(rules),
		analyze:      AnalyzeSignals,
		extractor:    cfg.Extractor,
		cooldown:     cfg.Cooldown,
		topicTimeout: cfg.TopicTimeout,
		locks:        newKeyMutex(),
		now:          time.Now,
	}
}

// AddMessage records a user message and decides whether to show feedback now.
// Only an empty session id is reported as an error.
func (e *Engine) AddMessage(ctx context.Context, sessionID, text string) (Decision, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Decision{}, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}

	t := e.turn(ctx, sessionID, text)
	decision := t.decision

	if decision.ShouldShowFeedback {
		decision.Topic = e.extractTopic(ctx, sessionID, t.excerpt)
		log.Info().
			Str("session_id", sessionID).
			Str("case_type", string(decision.CaseType)).
			Str("trigger", decision.Trigger).
			Str("rule", t.reason).
			Int("interactions", t.interactions).
			Msg("Feedback triggered")
	}

	return decision, nil
}

type turnResult struct {
	decision     Decision
	reason       string
	excerpt      []string
	interactions int
}

// turn runs the locked part of AddMessage. A panic from the store or the
// rules yields a non-firing decision and still releases the session lock.
func (e *Engine) turn(ctx context.Context, sessionID, text string) (t turnResult) {
	unlock := e.locks.Lock(sessionID)
	defer unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("session_id", sessionID).Msg("Feedback turn panicked")
			t = turnResult{decision: Decision{CaseType: domain.CaseGeneral}}
		}
	}()

	now := e.now()
	st := e.load(ctx, sessionID, now)
	st.Append(text)

	ct := e.classify(strings.Join(st.Messages, "\n"))
	if ct != domain.CaseGeneral || st.CaseType == "" {
		st.CaseType = ct
	}

	signals := e.signals(st.Messages)
	rule := e.rules.Rule(st.CaseType)
	if st.CanFire(now) {
		t.reason = evaluate(rule, st.InteractionCount, now.Sub(st.StartTime), text, signals)
	}

	t.decision = Decision{CaseType: st.CaseType}
	t.interactions = st.InteractionCount
	if t.reason != "" {
		st.MarkShown(now, e.cooldown)
		t.decision.ShouldShowFeedback = true
		t.decision.Trigger = triggerLabel(signals)
		t.excerpt = st.Tail(TopicExcerptMessages)
	}

	if err := e.store.Set(ctx, st); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to save session state")
	}
	return t
}

// ResetFeedback lets the rule chain fire again once the cooldown has passed
func (e *Engine) ResetFeedback(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}

	unlock := e.locks.Lock(sessionID)
	defer unlock()

	st, ok, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session state: %w", err)
	}
	if !ok {
		return nil
	}
	st.ResetFeedback()
	if err := e.store.Set(ctx, st); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// Cleanup evicts the transient state of a session
func (e *Engine) Cleanup(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}

	unlock := e.locks.Lock(sessionID)
	defer unlock()

	if err := e.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

func (e *Engine) load(ctx context.Context, sessionID string, now time.Time) *sessionstate.State {
	st, ok, err := e.store.Get(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load session state, starting fresh")
		return sessionstate.New(sessionID, now)
	}
	if !ok {
		return sessionstate.New(sessionID, now)
	}
	return st
}

func (e *Engine) classify(text string) (ct domain.CaseType) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Classifier panicked")
			ct = domain.CaseGeneral
		}
	}()
	return e.classifier.Classify(text)
}

func (e *Engine) signals(messages []string) (s Signals) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Signal analyzer panicked")
			s = Signals{}
		}
	}()
	return e.analyze(messages)
}

// evaluate runs the rule chain in priority order and names the first match
func evaluate(rule TriggerRule, count int, elapsed time.Duration, last string, signals Signals) string {
	switch {
	case IsUserClosing(last) && count >= 1:
		return "user_closing"
	case signals.Negative && count >= 2:
		return "negative_signal"
	case containsAny(strings.ToLower(last), rule.ClosingPhrases) && count >= 2:
		return "assistant_closing"
	case count >= rule.InteractionThreshold:
		return "interaction_threshold"
	case elapsed >= rule.TimeThreshold:
		return "time_threshold"
	}
	return ""
}

func triggerLabel(s Signals) string {
	switch {
	case s.Negative:
		return TriggerNegativeSignal
	case s.Resolved:
		return TriggerResolutionDetected
	default:
		return TriggerInteractionThreshold
	}
}
