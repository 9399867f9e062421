package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func newSession(id string, created time.Time, micro bool) *domain.Session {
	return &domain.Session{
		ID:                    id,
		CreatedAt:             created,
		UpdatedAt:             created,
		WithMicroInteractions: micro,
	}
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	db.Close()

	// schema creation is idempotent
	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	db.Close()
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db.SQL)

	created := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Create(ctx, newSession("s1", created, true)))
	require.NoError(t, repo.Create(ctx, newSession("s1", created.Add(time.Hour), false)))

	s, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, s.WithMicroInteractions)
	assert.True(t, s.CreatedAt.Equal(created))
	assert.Nil(t, s.EndedAt)
	assert.Nil(t, s.UserID)

	topic := "Troca de tamanho"
	ct := domain.CaseExchangeReturn
	require.NoError(t, repo.UpdateTopic(ctx, "s1", &topic, &ct))
	// nil keeps the stored values
	require.NoError(t, repo.UpdateTopic(ctx, "s1", nil, nil))

	first := created.Add(5 * time.Minute)
	require.NoError(t, repo.End(ctx, "s1", true, first))
	require.NoError(t, repo.End(ctx, "s1", false, first.Add(time.Hour)))
	require.NoError(t, repo.MarkResolved(ctx, "s1", first.Add(2*time.Hour)))

	s, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, s.EndedAt)
	assert.True(t, s.EndedAt.Equal(first))
	assert.False(t, s.Abandoned)
	assert.True(t, s.Resolved)
	assert.Equal(t, topic, *s.Topic)
	assert.Equal(t, domain.CaseExchangeReturn, *s.CaseType)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.MarkResolved(ctx, "missing", first), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageRepository_ListBySession(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, NewSessionRepository(db.SQL).Create(ctx, newSession("s1", now, false)))
	repo := NewMessageRepository(db.SQL)
	for i, role := range []domain.MessageRole{domain.RoleUser, domain.RoleAssistant, domain.RoleUser} {
		require.NoError(t, repo.Create(ctx, &domain.Message{
			ID: uuid.New(), SessionID: "s1", Role: role,
			Content: fmt.Sprintf("msg %d", i), CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := repo.ListBySession(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "msg 0", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)

	// messages need a parent session
	err = repo.Create(ctx, &domain.Message{ID: uuid.New(), SessionID: "ghost", Role: domain.RoleUser, Content: "x", CreatedAt: now})
	assert.Error(t, err)
}

func TestStatsRepository_ScopesToFilter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	sessions := NewSessionRepository(db.SQL)
	messages := NewMessageRepository(db.SQL)
	feedback := NewFeedbackRepository(db.SQL)
	votes := NewVoteRepository(db.SQL)
	interactions := NewInteractionRepository(db.SQL)
	stats := NewStatsRepository(db.SQL)

	day := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	comment := "ótimo"
	for i, micro := range []bool{true, false, true} {
		id := fmt.Sprintf("s%d", i)
		require.NoError(t, sessions.Create(ctx, newSession(id, day.AddDate(0, 0, i), micro)))
		require.NoError(t, messages.Create(ctx, &domain.Message{
			ID: uuid.New(), SessionID: id, Role: domain.RoleUser, Content: "oi", CreatedAt: day,
		}))
		require.NoError(t, feedback.Create(ctx, &domain.Feedback{
			ID: uuid.New(), SessionID: id, Satisfaction: 4, Confidence: 5, Comment: &comment, CreatedAt: day,
		}))
		require.NoError(t, votes.Upsert(ctx, &domain.Vote{ChatID: id, MessageID: "m1", IsUpvoted: true, CreatedAt: day}))
		require.NoError(t, interactions.Create(ctx, &domain.Interaction{
			ID: uuid.New(), SessionID: id, Type: domain.InteractionSuggestionClick,
			Metadata: map[string]any{"suggestion": "rastrear pedido"}, CreatedAt: day,
		}))
	}

	require.NoError(t, votes.Upsert(ctx, &domain.Vote{ChatID: "s0", MessageID: "m1", IsUpvoted: false, CreatedAt: day}))
	list, err := votes.ListByChat(ctx, "s0")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsUpvoted)

	empty, err := votes.ListByChat(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	micro := true
	from := day
	to := day.AddDate(0, 0, 1)
	filter := domain.StatsFilter{DateFrom: &from, DateTo: &to, WithMicroInteractions: &micro}

	got, err := stats.Sessions(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s0", got[0].ID)

	counts, err := stats.MessageCounts(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"s0": 1}, counts)

	fb, err := stats.Feedback(ctx, filter)
	require.NoError(t, err)
	require.Len(t, fb, 1)
	assert.Equal(t, comment, *fb[0].Comment)

	vs, err := stats.Votes(ctx, filter)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.False(t, vs[0].IsUpvoted)

	ics, err := stats.InteractionCounts(ctx, filter)
	require.NoError(t, err)
	require.Len(t, ics, 1)
	assert.Equal(t, domain.InteractionSuggestionClick, ics[0].Type)

	all, err := stats.Sessions(ctx, domain.StatsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAdminRepository_ClearAll(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, NewSessionRepository(db.SQL).Create(ctx, newSession("s1", now, false)))
	require.NoError(t, NewFeedbackRepository(db.SQL).Create(ctx, &domain.Feedback{
		ID: uuid.New(), SessionID: "s1", Satisfaction: 2, Confidence: 3, CreatedAt: now,
	}))

	require.NoError(t, NewAdminRepository(db.SQL).ClearAll(ctx))

	all, err := NewStatsRepository(db.SQL).Sessions(ctx, domain.StatsFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	fb, err := NewStatsRepository(db.SQL).Feedback(ctx, domain.StatsFilter{})
	require.NoError(t, err)
	assert.Empty(t, fb)
}
