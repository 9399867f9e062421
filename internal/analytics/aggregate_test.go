package analytics

import (
	"fmt"
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func session(id string, created time.Time, dur time.Duration) domain.Session {
	s := domain.Session{ID: id, CreatedAt: created, UpdatedAt: created}
	if dur > 0 {
		end := created.Add(dur)
		s.EndedAt = &end
	}
	return s
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(now, Dataset{}, Options{})

	assert.Zero(t, stats.TotalSessions)
	assert.Zero(t, stats.AbandonmentRate)
	assert.Zero(t, stats.AvgSatisfaction)
	assert.Zero(t, stats.UpvoteRatio)
	assert.Zero(t, stats.SuggestionRatio)
	assert.Zero(t, stats.TypedRatio)
	assert.Zero(t, stats.SessionDuration.MedianMs)
	assert.NotNil(t, stats.DailyBreakdown)
	assert.NotNil(t, stats.TopicStats)
	assert.NotNil(t, stats.SessionsPerDay)
}

func TestAggregate_Totals(t *testing.T) {
	day := time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC)

	s1 := session("s1", day, 2*time.Minute)
	s1.UserID = ptr("u1")
	s1.WithMicroInteractions = true
	s1.Resolved = true

	s2 := session("s2", day.Add(time.Hour), 4*time.Minute)
	s2.UserID = ptr("u1")
	s2.Abandoned = true

	s3 := session("s3", day.Add(2*time.Hour), 0) // open and older than an hour
	s3.UserID = ptr("u2")

	s4 := session("s4", now.Add(-10*time.Minute), 0) // open and recent

	ds := Dataset{
		Sessions:      []domain.Session{s1, s2, s3, s4},
		MessageCounts: map[string]int{"s1": 4, "s2": 2, "s3": 6, "ghost": 100},
		Feedback: []domain.Feedback{
			{SessionID: "s1", Satisfaction: 5, Confidence: 4},
			{SessionID: "s1", Satisfaction: 3, Confidence: 2},
			{SessionID: "s2", Satisfaction: 1, Confidence: 5},
			{SessionID: "ghost", Satisfaction: 1, Confidence: 1},
		},
		Votes: []domain.Vote{
			{ChatID: "s1", MessageID: "m1", IsUpvoted: true},
			{ChatID: "s1", MessageID: "m2", IsUpvoted: true},
			{ChatID: "s2", MessageID: "m3", IsUpvoted: false},
			{ChatID: "ghost", MessageID: "m4", IsUpvoted: false},
		},
		Interactions: []domain.InteractionCount{
			{SessionID: "s1", Type: domain.InteractionSuggestionClick, Count: 3},
			{SessionID: "s1", Type: domain.InteractionTypedMessage, Count: 1},
			{SessionID: "s2", Type: domain.InteractionTypedMessage, Count: 4},
			{SessionID: "s1", Type: domain.InteractionPostFeedbackRedirect, Count: 2},
			{SessionID: "s2", Type: domain.InteractionFeedbackSkipped, Count: 1},
			{SessionID: "ghost", Type: domain.InteractionSuggestionClick, Count: 50},
		},
	}

	stats := Aggregate(now, ds, Options{})

	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, 2, stats.UniqueUsers)
	assert.Equal(t, 1, stats.WithMicroInteractions)
	assert.Equal(t, 3, stats.WithoutMicroInteractions)

	// s2 explicitly abandoned, s3 unterminated for over an hour
	assert.Equal(t, 2, stats.AbandonedSessions)
	assert.InDelta(t, 50.0, stats.AbandonmentRate, 1e-9)

	assert.Equal(t, 12, stats.TotalMessages)
	assert.InDelta(t, 3.0, stats.AvgMessagesPerSession, 1e-9)

	assert.Equal(t, 3, stats.TotalFeedback)
	assert.InDelta(t, 3.0, stats.AvgSatisfaction, 1e-9)
	assert.InDelta(t, 11.0/3.0, stats.AvgConfidence, 1e-9)
	assert.Equal(t, 2, stats.CompletedSessions)
	assert.Equal(t, 1, stats.UniqueUsersWithFeedback)
	assert.InDelta(t, 50.0, stats.FeedbackCompletionRate, 1e-9)

	assert.Equal(t, 1, stats.RedirectedSessions)
	assert.Equal(t, 1, stats.SkippedSessions)
	assert.InDelta(t, 50.0, stats.RedirectRate, 1e-9)

	assert.Equal(t, 3, stats.TotalVotes)
	assert.Equal(t, 2, stats.Upvotes)
	assert.Equal(t, 1, stats.Downvotes)
	assert.Equal(t, stats.TotalVotes, stats.Upvotes+stats.Downvotes)

	assert.Equal(t, 3, stats.SuggestionClicks)
	assert.Equal(t, 5, stats.TypedMessages)
	assert.InDelta(t, 37.5, stats.SuggestionRatio, 1e-9)
	assert.InDelta(t, 100.0, stats.SuggestionRatio+stats.TypedRatio, 1e-9)

	assert.InDelta(t, 3*time.Minute.Seconds()*1000, stats.SessionDuration.AvgMs, 1e-6)
	assert.InDelta(t, 3*time.Minute.Seconds()*1000, stats.SessionDuration.MedianMs, 1e-6)
	assert.InDelta(t, 2*time.Minute.Seconds()*1000, stats.SessionDuration.AvgWithMicroMs, 1e-6)
	assert.InDelta(t, 4*time.Minute.Seconds()*1000, stats.SessionDuration.AvgWithoutMicroMs, 1e-6)
	assert.InDelta(t, 4*time.Minute.Seconds()*1000, stats.SessionDuration.AvgAbandonedMs, 1e-6)
}

func TestAggregate_ResolvedWinsOverAbandoned(t *testing.T) {
	s := session("s1", now.Add(-3*time.Hour), 0)
	s.Abandoned = true
	s.Resolved = true

	stats := Aggregate(now, Dataset{Sessions: []domain.Session{s}}, Options{})
	assert.Zero(t, stats.AbandonedSessions)
	assert.Zero(t, stats.AbandonmentRate)
}

func TestAggregate_NoFeedbackIsNotZeroRating(t *testing.T) {
	ds := Dataset{
		Sessions: []domain.Session{
			session("s1", now.Add(-time.Minute), 0),
			session("s2", now.Add(-time.Minute), 0),
		},
		Feedback: []domain.Feedback{{SessionID: "s1", Satisfaction: 4, Confidence: 5}},
	}

	stats := Aggregate(now, ds, Options{})
	assert.InDelta(t, 4.0, stats.AvgSatisfaction, 1e-9)
	assert.InDelta(t, 5.0, stats.AvgConfidence, 1e-9)
}

func TestAggregate_RatiosWithoutInteractions(t *testing.T) {
	ds := Dataset{Sessions: []domain.Session{session("s1", now, 0)}}

	stats := Aggregate(now, ds, Options{})
	assert.Zero(t, stats.SuggestionRatio)
	assert.Zero(t, stats.TypedRatio)
	assert.False(t, math.IsNaN(stats.UpvoteRatio))
}

func TestAggregate_DailyRowsSumToTotal(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var all []domain.Session
	for i := 0; i < 40; i++ {
		created := start.Add(time.Duration(i) * 7 * time.Hour)
		s := session(fmt.Sprintf("s%d", i), created, time.Duration(i+1)*time.Minute)
		s.WithMicroInteractions = i%3 == 0
		all = append(all, s)
	}

	from := start.AddDate(0, 0, 2)
	to := from.AddDate(0, 0, 7)
	filter := domain.StatsFilter{DateFrom: &from, DateTo: &to}

	var scoped []domain.Session
	for i := range all {
		if filter.Match(&all[i]) {
			scoped = append(scoped, all[i])
		}
	}
	require.NotEmpty(t, scoped)

	stats := Aggregate(now, Dataset{Sessions: scoped}, Options{})

	sum := 0
	perDaySum := 0
	prev := ""
	for _, row := range stats.DailyBreakdown {
		day, err := time.Parse("2006-01-02", row.Date)
		require.NoError(t, err)
		assert.False(t, day.Before(from.Truncate(24*time.Hour)), row.Date)
		assert.False(t, day.After(to), row.Date)
		assert.Greater(t, row.Date, prev, "rows ascend by date")
		assert.Equal(t, row.TotalSessions, row.SessionsWith+row.SessionsWithout)
		prev = row.Date
		sum += row.TotalSessions
	}
	for _, c := range stats.SessionsPerDay {
		perDaySum += c.Count
	}
	assert.Equal(t, stats.TotalSessions, sum)
	assert.Equal(t, stats.TotalSessions, perDaySum)
	assert.Equal(t, len(scoped), stats.TotalSessions)
}

func TestAggregate_DailyUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 02:00 UTC is still the previous evening in Sao Paulo
	s := session("s1", time.Date(2024, 6, 10, 2, 0, 0, 0, time.UTC), 0)

	stats := Aggregate(now, Dataset{Sessions: []domain.Session{s}}, Options{Location: loc})
	require.Len(t, stats.DailyBreakdown, 1)
	assert.Equal(t, "2024-06-09", stats.DailyBreakdown[0].Date)
}

func TestAggregate_DailyMetrics(t *testing.T) {
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	s1 := session("s1", day, time.Minute)
	s2 := session("s2", day.Add(time.Hour), 0)

	ds := Dataset{
		Sessions:      []domain.Session{s1, s2},
		MessageCounts: map[string]int{"s1": 3, "s2": 1},
		Votes:         []domain.Vote{{ChatID: "s1", IsUpvoted: true}, {ChatID: "s2"}},
		Feedback:      []domain.Feedback{{SessionID: "s2", Satisfaction: 2, Confidence: 3}},
		Interactions:  []domain.InteractionCount{{SessionID: "s1", Type: domain.InteractionSuggestionClick, Count: 1}},
	}

	stats := Aggregate(now, ds, Options{})
	require.Len(t, stats.DailyBreakdown, 1)
	row := stats.DailyBreakdown[0]

	assert.Equal(t, 2, row.TotalSessions)
	assert.Equal(t, 4, row.TotalMessages)
	assert.InDelta(t, 2.0, row.AvgMessagesPerSession, 1e-9)
	assert.InDelta(t, 60.0, row.AvgSessionDurationSec, 1e-9, "open sessions contribute no duration")
	assert.InDelta(t, 50.0, row.UpvoteRatio, 1e-9)
	assert.InDelta(t, 100.0, row.SuggestionRatio, 1e-9)
	assert.InDelta(t, 2.0, row.AvgSatisfaction, 1e-9)
	assert.InDelta(t, 3.0, row.AvgConfidence, 1e-9)
}

func TestAggregate_TopicStats(t *testing.T) {
	base := now.Add(-time.Hour)
	delivery := domain.CaseDelivery

	a := session("a", base, time.Minute)
	a.Topic, a.CaseType = ptr("Prazo de entrega"), &delivery
	b := session("b", base, 3*time.Minute)
	b.Topic, b.CaseType = ptr("Prazo de entrega"), &delivery
	c := session("c", base, 0)

	ds := Dataset{
		Sessions: []domain.Session{c, a, b},
		Interactions: []domain.InteractionCount{
			{SessionID: "a", Type: domain.InteractionSuggestionClick, Count: 1},
			{SessionID: "b", Type: domain.InteractionTypedMessage, Count: 3},
		},
	}

	stats := Aggregate(now, ds, Options{})
	require.Len(t, stats.TopicStats, 2)

	top := stats.TopicStats[0]
	assert.Equal(t, "Prazo de entrega", top.Topic)
	assert.Equal(t, "delivery", top.CaseType)
	assert.Equal(t, 2, top.SessionCount)
	assert.InDelta(t, 120.0, top.AvgDurationSec, 1e-9)
	assert.InDelta(t, 25.0, top.SuggestionRatio, 1e-9)

	assert.Equal(t, UnclassifiedTopic, stats.TopicStats[1].Topic)
	assert.Equal(t, "general", stats.TopicStats[1].CaseType)
}

func TestAggregate_DuplicateSessionsCountedOnce(t *testing.T) {
	s := session("s1", now, 0)
	stats := Aggregate(now, Dataset{Sessions: []domain.Session{s, s}}, Options{})
	assert.Equal(t, 1, stats.TotalSessions)
}

func TestMedian(t *testing.T) {
	assert.Zero(t, median(nil))
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
}
