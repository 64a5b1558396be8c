package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Reloader re-reads the catalog and purchase log.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// ReloadWorker periodically refreshes the dataset from its providers.
type ReloadWorker struct {
	reloader Reloader
	interval time.Duration
}

// NewReloadWorker constructs a ReloadWorker.
func NewReloadWorker(reloader Reloader, interval time.Duration) *ReloadWorker {
	return &ReloadWorker{
		reloader: reloader,
		interval: interval,
	}
}

// Start begins the periodic reload loop and listens for context cancellation.
func (w *ReloadWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting reload worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Reload worker stopped")
			return
		}
	}
}

func (w *ReloadWorker) run(ctx context.Context) {
	start := time.Now()
	changed, err := w.reloader.Reload(ctx)
	if err != nil {
		// keep serving the previous dataset
		log.Error().Err(err).Msg("Failed to reload dataset")
		return
	}
	if !changed {
		log.Debug().Msg("Dataset unchanged")
		return
	}

	log.Info().Dur("duration", time.Since(start)).Msg("Dataset reload completed")
}
