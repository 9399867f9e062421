package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedbackRepository implements domain.FeedbackRepository
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	query := `
		INSERT INTO chat_feedback (id, session_id, satisfaction, confidence, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.SessionID,
		feedback.Satisfaction,
		feedback.Confidence,
		feedback.Comment,
		feedback.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}
