package sessionstate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartSweeper runs a background goroutine that evicts expired state every
// interval until ctx is cancelled.
func StartSweeper(ctx context.Context, store Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Msg("Session state sweeper started")

		for {
			select {
			case now := <-ticker.C:
				removed, err := store.Sweep(ctx, now)
				if err != nil {
					log.Error().Err(err).Msg("Session state sweep failed")
					continue
				}
				if removed > 0 {
					log.Debug().Int("removed", removed).Msg("Evicted expired session state")
				}
			case <-ctx.Done():
				log.Info().Msg("Session state sweeper stopped")
				return
			}
		}
	}()
}
