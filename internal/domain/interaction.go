package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Interaction types recorded by the widget and the chat pipeline
const (
	InteractionSuggestionClick      = "suggestion_click"
	InteractionTypedMessage         = "typed_message"
	InteractionFeedbackSkipped      = "feedback_skipped"
	InteractionPostFeedbackRedirect = "post_feedback_redirect"
	InteractionEndModalShown        = "end_modal_shown"
	InteractionEndModalShownTimeout = "end_modal_shown_timeout"
	InteractionEndModalAnswerYes    = "end_modal_answer_yes"
	InteractionEndModalAnswerNo     = "end_modal_answer_no"

	// InteractionFeedbackTriggerPrefix is joined with the trigger label
	InteractionFeedbackTriggerPrefix = "feedback_trigger_"
)

// Interaction is a typed analytics event attached to a session
type Interaction struct {
	ID        uuid.UUID      `json:"id"`
	SessionID string         `json:"session_id"`
	Type      string         `json:"type"`
	Content   *string        `json:"content,omitempty"`
	Topic     *string        `json:"topic,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// InteractionCount is the number of interactions of one type in one session
type InteractionCount struct {
	SessionID string
	Type      string
	Count     int
}

// InteractionRepository defines the interface for interaction storage
type InteractionRepository interface {
	Create(ctx context.Context, interaction *Interaction) error
}
