package service

import (
	"context"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/Rrens/support-chat/internal/feedback"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) UpdateTopic(ctx context.Context, id string, topic *string, caseType *domain.CaseType) error {
	args := m.Called(ctx, id, topic, caseType)
	return args.Error(0)
}

func (m *MockSessionRepository) End(ctx context.Context, id string, abandoned bool, at time.Time) error {
	args := m.Called(ctx, id, abandoned, at)
	return args.Error(0)
}

func (m *MockSessionRepository) MarkResolved(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

// MockInteractionRepository mocks the InteractionRepository interface
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

// MockFeedbackRepository mocks the FeedbackRepository interface
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

// MockVoteRepository mocks the VoteRepository interface
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Upsert(ctx context.Context, vote *domain.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Vote, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vote), args.Error(1)
}

// MockAdminRepository mocks the AdminRepository interface
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStatsSource mocks the StatsSource interface
type MockStatsSource struct {
	mock.Mock
}

func (m *MockStatsSource) Sessions(ctx context.Context, filter domain.StatsFilter) ([]domain.Session, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockStatsSource) MessageCounts(ctx context.Context, filter domain.StatsFilter) (map[string]int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStatsSource) Feedback(ctx context.Context, filter domain.StatsFilter) ([]domain.Feedback, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *MockStatsSource) Votes(ctx context.Context, filter domain.StatsFilter) ([]domain.Vote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vote), args.Error(1)
}

func (m *MockStatsSource) InteractionCounts(ctx context.Context, filter domain.StatsFilter) ([]domain.InteractionCount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InteractionCount), args.Error(1)
}

// MockEngine mocks the FeedbackEngine interface
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) AddMessage(ctx context.Context, sessionID, text string) (feedback.Decision, error) {
	args := m.Called(ctx, sessionID, text)
	return args.Get(0).(feedback.Decision), args.Error(1)
}

func (m *MockEngine) ResetFeedback(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockEngine) Cleanup(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
