package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
)

const sessionColumns = `id, user_id, created_at, updated_at, ended_at, abandoned, resolved, with_micro_interactions, topic, case_type`

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, created_at, updated_at, with_micro_interactions, topic, case_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		nullString(session.UserID),
		toMillis(session.CreatedAt),
		toMillis(session.UpdatedAt),
		session.WithMicroInteractions,
		nullString(session.Topic),
		caseTypeArg(session.CaseType),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = ?`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "session")
	}
	return s, nil
}

func (r *SessionRepository) UpdateTopic(ctx context.Context, id string, topic *string, caseType *domain.CaseType) error {
	query := `
		UPDATE chat_sessions
		SET topic = COALESCE(?, topic), case_type = COALESCE(?, case_type), updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, nullString(topic), caseTypeArg(caseType), toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update session topic: %w", err)
	}
	return affected(res, id)
}

func (r *SessionRepository) End(ctx context.Context, id string, abandoned bool, at time.Time) error {
	query := `
		UPDATE chat_sessions
		SET ended_at = COALESCE(ended_at, ?), abandoned = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, toMillis(at), abandoned, toMillis(at), id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return affected(res, id)
}

func (r *SessionRepository) MarkResolved(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE chat_sessions
		SET resolved = 1, ended_at = COALESCE(ended_at, ?), updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, toMillis(at), toMillis(at), id)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	return affected(res, id)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM chat_sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var userID, topic, caseType sql.NullString
	var created, updated int64
	var ended sql.NullInt64
	if err := row.Scan(
		&s.ID,
		&userID,
		&created,
		&updated,
		&ended,
		&s.Abandoned,
		&s.Resolved,
		&s.WithMicroInteractions,
		&topic,
		&caseType,
	); err != nil {
		return nil, err
	}

	s.UserID = stringPtr(userID)
	s.Topic = stringPtr(topic)
	s.CreatedAt = fromMillis(created)
	s.UpdatedAt = fromMillis(updated)
	if ended.Valid {
		t := fromMillis(ended.Int64)
		s.EndedAt = &t
	}
	if caseType.Valid {
		ct := domain.ParseCaseType(caseType.String)
		s.CaseType = &ct
	}
	return &s, nil
}

func caseTypeArg(ct *domain.CaseType) sql.NullString {
	if ct == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*ct), Valid: true}
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
