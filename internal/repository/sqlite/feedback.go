package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rrens/support-chat/internal/domain"
)

// FeedbackRepository implements domain.FeedbackRepository
type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	query := `
		INSERT INTO chat_feedback (id, session_id, satisfaction, confidence, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		feedback.ID.String(),
		feedback.SessionID,
		feedback.Satisfaction,
		feedback.Confidence,
		nullString(feedback.Comment),
		toMillis(feedback.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}
