package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultConfidence is stored when the visitor skips the confidence question
const DefaultConfidence = 5

// Feedback is a satisfaction survey answer. Several records may exist per session.
type Feedback struct {
	ID           uuid.UUID `json:"id"`
	SessionID    string    `json:"session_id"`
	Satisfaction int       `json:"satisfaction"`
	Confidence   int       `json:"confidence"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FeedbackRepository defines the interface for feedback storage
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *Feedback) error
}
