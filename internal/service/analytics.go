package service

import (
	"context"
	"time"

	"github.com/Rrens/support-chat/internal/analytics"
	"github.com/Rrens/support-chat/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService computes dashboard metrics
type AnalyticsService struct {
	source  domain.StatsSource
	opts    analytics.Options
	timeout time.Duration
	now     func() time.Time
}

// NewAnalyticsService creates an analytics service. A positive timeout bounds
// the dataset fetches of one computation.
func NewAnalyticsService(source domain.StatsSource, opts analytics.Options, timeout time.Duration) *AnalyticsService {
	return &AnalyticsService{
		source:  source,
		opts:    opts,
		timeout: timeout,
		now:     time.Now,
	}
}

// Compute never fails: a dataset that cannot be fetched is logged and left
// empty, zeroing only the metrics built on it.
func (s *AnalyticsService) Compute(ctx context.Context, filter domain.StatsFilter) domain.DashboardStats {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// Each fetch writes its own Dataset field. Failures are absorbed by
	// degrade, so one slow or broken dataset never cancels the others.
	var ds analytics.Dataset
	var g errgroup.Group

	g.Go(func() error {
		rows, err := s.source.Sessions(ctx, filter)
		if degrade("sessions", err) {
			ds.Sessions = rows
		}
		return nil
	})
	g.Go(func() error {
		counts, err := s.source.MessageCounts(ctx, filter)
		if degrade("message_counts", err) {
			ds.MessageCounts = counts
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.Feedback(ctx, filter)
		if degrade("feedback", err) {
			ds.Feedback = rows
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.Votes(ctx, filter)
		if degrade("votes", err) {
			ds.Votes = rows
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.InteractionCounts(ctx, filter)
		if degrade("interactions", err) {
			ds.Interactions = rows
		}
		return nil
	})
	_ = g.Wait()

	return analytics.Aggregate(s.now(), ds, s.opts)
}

// degrade logs a failed fetch and reports whether the result is usable
func degrade(dataset string, err error) bool {
	if err == nil {
		return true
	}
	log.Error().Err(err).Str("dataset", dataset).Msg("Dashboard dataset unavailable, metrics zeroed")
	return false
}
