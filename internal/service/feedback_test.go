package service

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type feedbackFixture struct {
	sessions     *MockSessionRepository
	feedback     *MockFeedbackRepository
	votes        *MockVoteRepository
	interactions *MockInteractionRepository
	svc          *FeedbackService
}

func newFeedbackFixture() *feedbackFixture {
	f := &feedbackFixture{
		sessions:     new(MockSessionRepository),
		feedback:     new(MockFeedbackRepository),
		votes:        new(MockVoteRepository),
		interactions: new(MockInteractionRepository),
	}
	f.svc = NewFeedbackService(f.sessions, f.feedback, f.votes, f.interactions, false)
	f.svc.now = func() time.Time { return fixedNow }
	f.sessions.On("Get", mock.Anything, mock.Anything).Return(&domain.Session{ID: "s1"}, nil)
	return f
}

func TestFeedbackService_SubmitFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("confidence defaults to five", func(t *testing.T) {
		f := newFeedbackFixture()
		f.feedback.On("Create", ctx, mock.MatchedBy(func(fb *domain.Feedback) bool {
			return fb.Satisfaction == 4 && fb.Confidence == domain.DefaultConfidence
		})).Return(nil)

		fb, err := f.svc.SubmitFeedback(ctx, FeedbackInput{SessionID: "s1", Satisfaction: 4})
		require.NoError(t, err)
		assert.Equal(t, 5, fb.Confidence)
		f.feedback.AssertExpectations(t)
	})

	t.Run("explicit confidence", func(t *testing.T) {
		f := newFeedbackFixture()
		f.feedback.On("Create", ctx, mock.Anything).Return(nil)

		conf := 2
		fb, err := f.svc.SubmitFeedback(ctx, FeedbackInput{SessionID: "s1", Satisfaction: 1, Confidence: &conf})
		require.NoError(t, err)
		assert.Equal(t, 2, fb.Confidence)
	})

	t.Run("out of range", func(t *testing.T) {
		f := newFeedbackFixture()
		zero, six := 0, 6
		cases := []FeedbackInput{
			{SessionID: "s1", Satisfaction: 0},
			{SessionID: "s1", Satisfaction: 6},
			{SessionID: "s1", Satisfaction: 3, Confidence: &six},
			{SessionID: "s1", Satisfaction: 3, Confidence: &zero},
			{Satisfaction: 3},
		}
		for _, in := range cases {
			_, err := f.svc.SubmitFeedback(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		}
		f.feedback.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestFeedbackService_Vote(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture()
	f.votes.On("Upsert", ctx, mock.MatchedBy(func(v *domain.Vote) bool { return v.IsUpvoted })).Return(nil).Once()
	f.votes.On("Upsert", ctx, mock.MatchedBy(func(v *domain.Vote) bool { return !v.IsUpvoted })).Return(nil).Once()

	v, err := f.svc.Vote(ctx, VoteInput{ChatID: "s1", MessageID: "m1", Type: "up"})
	require.NoError(t, err)
	assert.True(t, v.IsUpvoted)

	v, err = f.svc.Vote(ctx, VoteInput{ChatID: "s1", MessageID: "m1", Type: "down"})
	require.NoError(t, err)
	assert.False(t, v.IsUpvoted)

	_, err = f.svc.Vote(ctx, VoteInput{ChatID: "s1", MessageID: "m1", Type: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Vote(ctx, VoteInput{ChatID: "   ", MessageID: "m1", Type: "up"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.sessions.AssertNotCalled(t, "Get", mock.Anything, "   ")
	f.votes.AssertExpectations(t)
}

func TestFeedbackService_ListVotesNeverNil(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture()
	f.votes.On("ListByChat", ctx, "s1").Return(nil, nil)

	votes, err := f.svc.ListVotes(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, votes)
	assert.Empty(t, votes)

	_, err = f.svc.ListVotes(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeedbackService_TrackInteraction(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture()
	f.interactions.On("Create", ctx, mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Type == domain.InteractionFeedbackSkipped && i.Metadata["step"] == "survey"
	})).Return(nil)

	i, err := f.svc.TrackInteraction(ctx, InteractionInput{
		SessionID:       "s1",
		InteractionType: domain.InteractionFeedbackSkipped,
		Metadata:        map[string]any{"step": "survey"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", i.SessionID)

	_, err = f.svc.TrackInteraction(ctx, InteractionInput{SessionID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.interactions.AssertExpectations(t)
}
