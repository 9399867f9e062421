// Package analytics turns persisted session rows into dashboard metrics.
package analytics

import (
	"sort"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
)

const (
	// DefaultAbandonAfter marks open sessions older than this as abandoned
	DefaultAbandonAfter = time.Hour

	UnclassifiedTopic = "unclassified"
	dayLayout         = "2006-01-02"
)

// Dataset holds the raw rows for one dashboard computation. A nil field is
// treated as empty so a failed fetch zeroes only the metrics built on it.
type Dataset struct {
	Sessions      []domain.Session
	MessageCounts map[string]int
	Feedback      []domain.Feedback
	Votes         []domain.Vote
	Interactions  []domain.InteractionCount
}

type Options struct {
	AbandonAfter time.Duration
	Location     *time.Location
}

// sessionFacts are the per-session sums every breakdown is built from
type sessionFacts struct {
	messages   int
	votes      int
	upvotes    int
	clicks     int
	typed      int
	redirected bool
	skipped    bool
	feedbacks  int
	satSum     int
	confSum    int
}

// Aggregate computes the dashboard metrics. Rows that reference a session
// outside ds.Sessions are ignored so every metric shares one session set.
func Aggregate(now time.Time, ds Dataset, opts Options) domain.DashboardStats {
	if opts.AbandonAfter <= 0 {
		opts.AbandonAfter = DefaultAbandonAfter
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	sessions, facts := index(ds)
	stats := domain.EmptyDashboardStats()
	stats.TotalSessions = len(sessions)

	users := make(map[string]struct{})
	feedbackUsers := make(map[string]struct{})
	var satSum, confSum int

	for i := range sessions {
		s := &sessions[i]
		f := facts[s.ID]

		if s.UserID != nil {
			users[*s.UserID] = struct{}{}
		}
		if s.WithMicroInteractions {
			stats.WithMicroInteractions++
		} else {
			stats.WithoutMicroInteractions++
		}
		if s.IsAbandoned(now, opts.AbandonAfter) {
			stats.AbandonedSessions++
		}

		stats.TotalMessages += f.messages
		stats.TotalVotes += f.votes
		stats.Upvotes += f.upvotes
		stats.SuggestionClicks += f.clicks
		stats.TypedMessages += f.typed
		stats.TotalFeedback += f.feedbacks
		satSum += f.satSum
		confSum += f.confSum

		if f.feedbacks > 0 {
			stats.CompletedSessions++
			if s.UserID != nil {
				feedbackUsers[*s.UserID] = struct{}{}
			}
		}
		if f.redirected {
			stats.RedirectedSessions++
		}
		if f.skipped {
			stats.SkippedSessions++
		}
	}

	stats.UniqueUsers = len(users)
	stats.UniqueUsersWithFeedback = len(feedbackUsers)
	stats.FeedbackCompletionRate = percent(stats.CompletedSessions, stats.TotalSessions)
	stats.AbandonmentRate = percent(stats.AbandonedSessions, stats.TotalSessions)
	stats.AvgMessagesPerSession = ratio(stats.TotalMessages, stats.TotalSessions)
	stats.AvgSatisfaction = ratio(satSum, stats.TotalFeedback)
	stats.AvgConfidence = ratio(confSum, stats.TotalFeedback)
	stats.RedirectRate = percent(stats.RedirectedSessions, stats.CompletedSessions)
	stats.Downvotes = stats.TotalVotes - stats.Upvotes
	stats.UpvoteRatio = percent(stats.Upvotes, stats.TotalVotes)
	stats.SuggestionRatio = percent(stats.SuggestionClicks, stats.SuggestionClicks+stats.TypedMessages)
	stats.TypedRatio = percent(stats.TypedMessages, stats.SuggestionClicks+stats.TypedMessages)

	stats.SessionDuration = durations(sessions, now, opts.AbandonAfter)
	stats.SessionsPerDay, stats.DailyBreakdown = daily(sessions, facts, opts.Location)
	stats.TopicStats = topics(sessions, facts)

	return stats
}

// index drops duplicate sessions and folds every child row into its session
func index(ds Dataset) ([]domain.Session, map[string]*sessionFacts) {
	facts := make(map[string]*sessionFacts, len(ds.Sessions))
	sessions := make([]domain.Session, 0, len(ds.Sessions))
	for _, s := range ds.Sessions {
		if _, dup := facts[s.ID]; dup {
			continue
		}
		facts[s.ID] = &sessionFacts{}
		sessions = append(sessions, s)
	}

	for id, n := range ds.MessageCounts {
		if f, ok := facts[id]; ok {
			f.messages += n
		}
	}
	for _, fb := range ds.Feedback {
		if f, ok := facts[fb.SessionID]; ok {
			f.feedbacks++
			f.satSum += fb.Satisfaction
			f.confSum += fb.Confidence
		}
	}
	for _, v := range ds.Votes {
		if f, ok := facts[v.ChatID]; ok {
			f.votes++
			if v.IsUpvoted {
				f.upvotes++
			}
		}
	}
	for _, ic := range ds.Interactions {
		f, ok := facts[ic.SessionID]
		if !ok || ic.Count <= 0 {
			continue
		}
		switch ic.Type {
		case domain.InteractionSuggestionClick:
			f.clicks += ic.Count
		case domain.InteractionTypedMessage:
			f.typed += ic.Count
		case domain.InteractionPostFeedbackRedirect:
			f.redirected = true
		case domain.InteractionFeedbackSkipped:
			f.skipped = true
		}
	}

	return sessions, facts
}

func durations(sessions []domain.Session, now time.Time, abandonAfter time.Duration) domain.DurationStats {
	var all, withMicro, withoutMicro, abandoned []float64
	for i := range sessions {
		s := &sessions[i]
		d, ok := s.Duration()
		if !ok {
			continue
		}
		ms := float64(d.Milliseconds())
		all = append(all, ms)
		if s.WithMicroInteractions {
			withMicro = append(withMicro, ms)
		} else {
			withoutMicro = append(withoutMicro, ms)
		}
		if s.IsAbandoned(now, abandonAfter) {
			abandoned = append(abandoned, ms)
		}
	}

	return domain.DurationStats{
		AvgMs:             mean(all),
		MedianMs:          median(all),
		AvgWithMicroMs:    mean(withMicro),
		AvgWithoutMicroMs: mean(withoutMicro),
		AvgAbandonedMs:    mean(abandoned),
	}
}

// bucket accumulates one daily or topic row
type bucket struct {
	sessions, with, without int
	messages                int
	durations               []float64
	votes, upvotes          int
	clicks, typed           int
	feedbacks               int
	satSum, confSum         int
}

func (b *bucket) add(s *domain.Session, f *sessionFacts) {
	b.sessions++
	if s.WithMicroInteractions {
		b.with++
	} else {
		b.without++
	}
	if d, ok := s.Duration(); ok {
		b.durations = append(b.durations, d.Seconds())
	}
	b.messages += f.messages
	b.votes += f.votes
	b.upvotes += f.upvotes
	b.clicks += f.clicks
	b.typed += f.typed
	b.feedbacks += f.feedbacks
	b.satSum += f.satSum
	b.confSum += f.confSum
}

func daily(sessions []domain.Session, facts map[string]*sessionFacts, loc *time.Location) ([]domain.DailySessionCount, []domain.DailyStats) {
	buckets := make(map[string]*bucket)
	for i := range sessions {
		s := &sessions[i]
		day := s.CreatedAt.In(loc).Format(dayLayout)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.add(s, facts[s.ID])
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	perDay := make([]domain.DailySessionCount, 0, len(days)*2)
	rows := make([]domain.DailyStats, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		if b.without > 0 {
			perDay = append(perDay, domain.DailySessionCount{Date: day, WithMicro: false, Count: b.without})
		}
		if b.with > 0 {
			perDay = append(perDay, domain.DailySessionCount{Date: day, WithMicro: true, Count: b.with})
		}
		rows = append(rows, domain.DailyStats{
			Date:                  day,
			SessionsWith:          b.with,
			SessionsWithout:       b.without,
			TotalSessions:         b.sessions,
			TotalMessages:         b.messages,
			AvgMessagesPerSession: ratio(b.messages, b.sessions),
			AvgSessionDurationSec: mean(b.durations),
			UpvoteRatio:           percent(b.upvotes, b.votes),
			SuggestionRatio:       percent(b.clicks, b.clicks+b.typed),
			AvgSatisfaction:       ratio(b.satSum, b.feedbacks),
			AvgConfidence:         ratio(b.confSum, b.feedbacks),
		})
	}
	return perDay, rows
}

type topicKey struct {
	topic    string
	caseType string
}

func topics(sessions []domain.Session, facts map[string]*sessionFacts) []domain.TopicStats {
	buckets := make(map[topicKey]*bucket)
	for i := range sessions {
		s := &sessions[i]
		key := topicKey{topic: UnclassifiedTopic, caseType: string(domain.CaseGeneral)}
		if s.Topic != nil && *s.Topic != "" {
			key.topic = *s.Topic
		}
		if s.CaseType != nil && *s.CaseType != "" {
			key.caseType = string(*s.CaseType)
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.add(s, facts[s.ID])
	}

	rows := make([]domain.TopicStats, 0, len(buckets))
	for key, b := range buckets {
		rows = append(rows, domain.TopicStats{
			Topic:            key.topic,
			CaseType:         key.caseType,
			SessionCount:     b.sessions,
			AvgDurationSec:   mean(b.durations),
			AvgMessages:      ratio(b.messages, b.sessions),
			AvgSatisfaction:  ratio(b.satSum, b.feedbacks),
			SuggestionClicks: b.clicks,
			TypedMessages:    b.typed,
			SuggestionRatio:  percent(b.clicks, b.clicks+b.typed),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SessionCount != rows[j].SessionCount {
			return rows[i].SessionCount > rows[j].SessionCount
		}
		if rows[i].Topic != rows[j].Topic {
			return rows[i].Topic < rows[j].Topic
		}
		return rows[i].CaseType < rows[j].CaseType
	})
	return rows
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func percent(num, den int) float64 {
	return ratio(num, den) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
