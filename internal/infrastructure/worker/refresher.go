package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

const defaultInterval = 5 * time.Minute

// SnapshotRefresher periodically recomputes the analytics snapshot.
type SnapshotRefresher struct {
	dashboard ports.DashboardService
	interval  time.Duration
	log       zerolog.Logger
}

// NewSnapshotRefresher creates a refresher ticking every interval.
// If interval <= 0, defaultInterval is used.
func NewSnapshotRefresher(dashboard ports.DashboardService, interval time.Duration, log zerolog.Logger) *SnapshotRefresher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &SnapshotRefresher{dashboard: dashboard, interval: interval, log: log}
}

// Start launches the refresh loop. It stops when ctx is cancelled and the
// returned channel is closed once the loop has exited.
func (r *SnapshotRefresher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(ctx)
	}()
	return done
}

func (r *SnapshotRefresher) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *SnapshotRefresher) refresh(ctx context.Context) {
	if _, err := r.dashboard.RefreshSnapshot(ctx); err != nil && ctx.Err() == nil {
		r.log.Error().Err(err).Msg("analytics snapshot refresh failed")
	}
}
