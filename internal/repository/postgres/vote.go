package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VoteRepository implements domain.VoteRepository
type VoteRepository struct {
	pool *pgxpool.Pool
}

func NewVoteRepository(pool *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{pool: pool}
}

func (r *VoteRepository) Upsert(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO chat_votes (chat_id, message_id, is_upvoted, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id, message_id) DO UPDATE SET is_upvoted = EXCLUDED.is_upvoted
	`
	_, err := r.pool.Exec(ctx, query, vote.ChatID, vote.MessageID, vote.IsUpvoted, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Vote, error) {
	query := `
		SELECT chat_id, message_id, is_upvoted, created_at
		FROM chat_votes
		WHERE chat_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ChatID, &v.MessageID, &v.IsUpvoted, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
