package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `id, user_id, created_at, updated_at, ended_at, abandoned, resolved, with_micro_interactions, topic, case_type`

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, created_at, updated_at, with_micro_interactions, topic, case_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.UpdatedAt,
		session.WithMicroInteractions,
		session.Topic,
		caseTypeArg(session.CaseType),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "session")
	}
	return s, nil
}

func (r *SessionRepository) UpdateTopic(ctx context.Context, id string, topic *string, caseType *domain.CaseType) error {
	query := `
		UPDATE chat_sessions
		SET topic = COALESCE($2, topic), case_type = COALESCE($3, case_type), updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, topic, caseTypeArg(caseType))
	if err != nil {
		return fmt.Errorf("failed to update session topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) End(ctx context.Context, id string, abandoned bool, at time.Time) error {
	query := `
		UPDATE chat_sessions
		SET ended_at = COALESCE(ended_at, $3), abandoned = $2, updated_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, abandoned, at)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) MarkResolved(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE chat_sessions
		SET resolved = TRUE, ended_at = COALESCE(ended_at, $2), updated_at = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM chat_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	var caseType *string
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.EndedAt,
		&s.Abandoned,
		&s.Resolved,
		&s.WithMicroInteractions,
		&s.Topic,
		&caseType,
	); err != nil {
		return nil, err
	}
	if caseType != nil {
		ct := domain.ParseCaseType(*caseType)
		s.CaseType = &ct
	}
	return &s, nil
}

func caseTypeArg(ct *domain.CaseType) *string {
	if ct == nil {
		return nil
	}
	s := string(*ct)
	return &s
}
