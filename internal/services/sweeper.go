package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper periodically evicts stale presence until its context is cancelled.
type Sweeper struct {
	presence *PresenceService
	interval time.Duration
}

func NewSweeper(presence *PresenceService, interval time.Duration) *Sweeper {
	return &Sweeper{presence: presence, interval: interval}
}

// Run blocks until ctx is done. A failed pass is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	logger := zerolog.Ctx(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := s.presence.Sweep(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("presence sweep failed")
				continue
			}
			if removed > 0 {
				logger.Info().Int64("removed", removed).Msg("evicted stale presence")
			}
		}
	}
}
