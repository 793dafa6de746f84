package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

// IdleSweeper démonte périodiquement les widgets abandonnés (onglet fermé
// sans DELETE, client SSE disparu...).
type IdleSweeper struct {
	logger   zerolog.Logger
	sessions *SessionManager
	settings func(ctx context.Context) (domain.Settings, error)

	TickInterval time.Duration
}

func NewIdleSweeper(logger zerolog.Logger, sessions *SessionManager, settings func(ctx context.Context) (domain.Settings, error)) *IdleSweeper {
	return &IdleSweeper{
		logger:       logger,
		sessions:     sessions,
		settings:     settings,
		TickInterval: 30 * time.Second,
	}
}

func (sw *IdleSweeper) Run(ctx context.Context) {
	interval := sw.TickInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info().Msg("idle sweeper stopped")
			return
		case <-ticker.C:
			sw.tick(ctx, time.Now())
		}
	}
}

func (sw *IdleSweeper) tick(ctx context.Context, now time.Time) int {
	if sw.sessions == nil {
		return 0
	}
	idle := domain.DefaultSettings().IdleTimeout()
	if sw.settings != nil {
		if s, err := sw.settings(ctx); err == nil && s.IdleTimeoutSeconds > 0 {
			idle = s.IdleTimeout()
		} else if err != nil {
			sw.logger.Warn().Err(err).Msg("settings unavailable, using default idle timeout")
		}
	}

	n := sw.sessions.SweepIdle(now, idle)
	if n > 0 {
		sw.logger.Info().Int("unmounted", n).Dur("idle", idle).Msg("idle widgets unmounted")
	}
	return n
}
