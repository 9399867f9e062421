package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository implements domain.StatsSource. Every query joins back to
// chat_sessions so child rows share the filtered session set.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) Sessions(ctx context.Context, filter domain.StatsFilter) ([]domain.Session, error) {
	where, args := scope(filter, "s")
	query := `SELECT s.` + strings.ReplaceAll(sessionColumns, ", ", ", s.") + ` FROM chat_sessions s` + where

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *StatsRepository) MessageCounts(ctx context.Context, filter domain.StatsFilter) (map[string]int, error) {
	where, args := scope(filter, "s")
	query := `
		SELECT m.session_id, COUNT(*)
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id` + where + `
		GROUP BY m.session_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan message count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (r *StatsRepository) Feedback(ctx context.Context, filter domain.StatsFilter) ([]domain.Feedback, error) {
	where, args := scope(filter, "s")
	query := `
		SELECT f.id, f.session_id, f.satisfaction, f.confidence, f.comment, f.created_at
		FROM chat_feedback f
		JOIN chat_sessions s ON s.id = f.session_id` + where

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var feedback []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Satisfaction, &f.Confidence, &f.Comment, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

func (r *StatsRepository) Votes(ctx context.Context, filter domain.StatsFilter) ([]domain.Vote, error) {
	where, args := scope(filter, "s")
	query := `
		SELECT v.chat_id, v.message_id, v.is_upvoted, v.created_at
		FROM chat_votes v
		JOIN chat_sessions s ON s.id = v.chat_id` + where

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ChatID, &v.MessageID, &v.IsUpvoted, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (r *StatsRepository) InteractionCounts(ctx context.Context, filter domain.StatsFilter) ([]domain.InteractionCount, error) {
	where, args := scope(filter, "s")
	query := `
		SELECT i.session_id, i.interaction_type, COUNT(*)
		FROM user_interactions i
		JOIN chat_sessions s ON s.id = i.session_id` + where + `
		GROUP BY i.session_id, i.interaction_type`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	defer rows.Close()

	var counts []domain.InteractionCount
	for rows.Next() {
		var c domain.InteractionCount
		if err := rows.Scan(&c.SessionID, &c.Type, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan interaction count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// scope renders the filter as a WHERE clause over the sessions alias
func scope(f domain.StatsFilter, alias string) (string, []any) {
	var conds []string
	var args []any

	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("%s.created_at >= $%d", alias, len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("%s.created_at <= $%d", alias, len(args)))
	}
	if f.WithMicroInteractions != nil {
		args = append(args, *f.WithMicroInteractions)
		conds = append(conds, fmt.Sprintf("%s.with_micro_interactions = $%d", alias, len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}
