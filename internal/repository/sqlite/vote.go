package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rrens/support-chat/internal/domain"
)

// VoteRepository implements domain.VoteRepository
type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Upsert(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO chat_votes (chat_id, message_id, is_upvoted, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chat_id, message_id) DO UPDATE SET is_upvoted = excluded.is_upvoted
	`
	_, err := r.db.ExecContext(ctx, query, vote.ChatID, vote.MessageID, vote.IsUpvoted, toMillis(vote.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Vote, error) {
	query := `
		SELECT chat_id, message_id, is_upvoted, created_at
		FROM chat_votes
		WHERE chat_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func scanVote(row rowScanner) (domain.Vote, error) {
	var v domain.Vote
	var created int64
	if err := row.Scan(&v.ChatID, &v.MessageID, &v.IsUpvoted, &created); err != nil {
		return v, fmt.Errorf("failed to scan vote: %w", err)
	}
	v.CreatedAt = fromMillis(created)
	return v, nil
}
