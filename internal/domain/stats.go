package domain

import (
	"context"
	"time"
)

// StatsFilter scopes every dashboard metric to the same session set
type StatsFilter struct {
	DateFrom              *time.Time `json:"date_from,omitempty"`
	DateTo                *time.Time `json:"date_to,omitempty"`
	WithMicroInteractions *bool      `json:"with_micro_interactions,omitempty"`
}

// Match reports whether the session belongs to the filtered set
func (f StatsFilter) Match(s *Session) bool {
	if f.DateFrom != nil && s.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && s.CreatedAt.After(*f.DateTo) {
		return false
	}
	if f.WithMicroInteractions != nil && s.WithMicroInteractions != *f.WithMicroInteractions {
		return false
	}
	return true
}

// DashboardStats is the flat metric record rendered by the operator dashboard.
// Rates and ratios are percentages in 0..100.
type DashboardStats struct {
	TotalSessions            int     `json:"total_sessions"`
	UniqueUsers              int     `json:"unique_users"`
	UniqueUsersWithFeedback  int     `json:"unique_users_with_feedback"`
	FeedbackCompletionRate   float64 `json:"feedback_completion_rate"`
	WithMicroInteractions    int     `json:"with_micro_interactions"`
	WithoutMicroInteractions int     `json:"without_micro_interactions"`
	AbandonedSessions        int     `json:"abandoned_sessions"`
	AbandonmentRate          float64 `json:"abandonment_rate"`

	TotalMessages         int     `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`

	TotalFeedback     int     `json:"total_feedback"`
	AvgSatisfaction   float64 `json:"avg_satisfaction"`
	AvgConfidence     float64 `json:"avg_confidence"`
	CompletedSessions int     `json:"completed_sessions"`

	RedirectedSessions int     `json:"redirected_sessions"`
	SkippedSessions    int     `json:"skipped_sessions"`
	RedirectRate       float64 `json:"redirect_rate"`

	TotalVotes  int     `json:"total_votes"`
	Upvotes     int     `json:"upvotes"`
	Downvotes   int     `json:"downvotes"`
	UpvoteRatio float64 `json:"upvote_ratio"`

	SuggestionClicks int     `json:"suggestion_clicks"`
	TypedMessages    int     `json:"typed_messages"`
	SuggestionRatio  float64 `json:"suggestion_ratio"`
	TypedRatio       float64 `json:"typed_ratio"`

	SessionsPerDay  []DailySessionCount `json:"sessions_per_day"`
	DailyBreakdown  []DailyStats        `json:"daily_breakdown"`
	TopicStats      []TopicStats        `json:"topic_stats"`
	SessionDuration DurationStats       `json:"session_duration"`
}

// EmptyDashboardStats returns zero metrics with non-nil slices
func EmptyDashboardStats() DashboardStats {
	return DashboardStats{
		SessionsPerDay: []DailySessionCount{},
		DailyBreakdown: []DailyStats{},
		TopicStats:     []TopicStats{},
	}
}

// DailySessionCount is one (day, variant) session count
type DailySessionCount struct {
	Date      string `json:"date"`
	WithMicro bool   `json:"with_micro"`
	Count     int    `json:"count"`
}

type DailyStats struct {
	Date                  string  `json:"date"`
	SessionsWith          int     `json:"sessions_with"`
	SessionsWithout       int     `json:"sessions_without"`
	TotalSessions         int     `json:"total_sessions"`
	TotalMessages         int     `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
	AvgSessionDurationSec float64 `json:"avg_session_duration_sec"`
	UpvoteRatio           float64 `json:"upvote_ratio"`
	SuggestionRatio       float64 `json:"suggestion_ratio"`
	AvgSatisfaction       float64 `json:"avg_satisfaction"`
	AvgConfidence         float64 `json:"avg_confidence"`
}

type TopicStats struct {
	Topic            string  `json:"topic"`
	CaseType         string  `json:"case_type"`
	SessionCount     int     `json:"session_count"`
	AvgDurationSec   float64 `json:"avg_duration_sec"`
	AvgMessages      float64 `json:"avg_messages"`
	AvgSatisfaction  float64 `json:"avg_satisfaction"`
	SuggestionClicks int     `json:"suggestion_clicks"`
	TypedMessages    int     `json:"typed_messages"`
	SuggestionRatio  float64 `json:"suggestion_ratio"`
}

// DurationStats are computed only over sessions with a recorded end time
type DurationStats struct {
	AvgMs             float64 `json:"avg_ms"`
	MedianMs          float64 `json:"median_ms"`
	AvgWithMicroMs    float64 `json:"avg_with_micro_ms"`
	AvgWithoutMicroMs float64 `json:"avg_without_micro_ms"`
	AvgAbandonedMs    float64 `json:"avg_abandoned_ms"`
}

// StatsSource reads the raw rows behind the dashboard. Every method is scoped
// to the sessions matching the filter.
type StatsSource interface {
	Sessions(ctx context.Context, filter StatsFilter) ([]Session, error)
	MessageCounts(ctx context.Context, filter StatsFilter) (map[string]int, error)
	Feedback(ctx context.Context, filter StatsFilter) ([]Feedback, error)
	Votes(ctx context.Context, filter StatsFilter) ([]Vote, error)
	InteractionCounts(ctx context.Context, filter StatsFilter) ([]InteractionCount, error)
}

// AdminRepository holds destructive maintenance operations
type AdminRepository interface {
	// ClearAll deletes every row, children first
	ClearAll(ctx context.Context) error
}
