package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper drops expired sessions and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// SessionSweepWorker evicts expired in-memory sessions.
type SessionSweepWorker struct {
	sweeper  Sweeper
	interval time.Duration
}

// NewSessionSweepWorker constructs a SessionSweepWorker.
func NewSessionSweepWorker(sweeper Sweeper, interval time.Duration) *SessionSweepWorker {
	return &SessionSweepWorker{sweeper: sweeper, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *SessionSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting session sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.sweeper.Sweep(); n > 0 {
				log.Info().Int("expired", n).Msg("Expired sessions removed")
			}
		case <-ctx.Done():
			log.Info().Msg("Session sweep worker stopped")
			return
		}
	}
}
