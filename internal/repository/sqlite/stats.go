package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/google/uuid"
)

// StatsRepository implements domain.StatsSource over the filtered session set
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Sessions(ctx context.Context, filter domain.StatsFilter) ([]domain.Session, error) {
	where, args := scope(filter, "s")
	query := `SELECT s.` + strings.ReplaceAll(sessionColumns, ", ", ", s.") + ` FROM chat_sessions s` + where

	rows, err := r.db.QueryContext(ctx, query, args...)
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

	rows, err := r.db.QueryContext(ctx, query, args...)
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

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var feedback []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var id string
		var comment sql.NullString
		var created int64
		if err := rows.Scan(&id, &f.SessionID, &f.Satisfaction, &f.Confidence, &comment, &created); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		if f.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse feedback id: %w", err)
		}
		f.Comment = stringPtr(comment)
		f.CreatedAt = fromMillis(created)
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

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
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

	rows, err := r.db.QueryContext(ctx, query, args...)
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

func scope(f domain.StatsFilter, alias string) (string, []any) {
	var conds []string
	var args []any

	if f.DateFrom != nil {
		conds = append(conds, alias+".created_at >= ?")
		args = append(args, toMillis(*f.DateFrom))
	}
	if f.DateTo != nil {
		conds = append(conds, alias+".created_at <= ?")
		args = append(args, toMillis(*f.DateTo))
	}
	if f.WithMicroInteractions != nil {
		conds = append(conds, alias+".with_micro_interactions = ?")
		args = append(args, *f.WithMicroInteractions)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}
