package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goroutine"
)

// RegisterSweepScheduler starts the two background sweeps: one re-enqueues
// failed deliveries still under their retry ceiling, the other releases
// scheduled notifications that have come due. Both stop with the app context.
func RegisterSweepScheduler(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	uc ucSweeper,
) {
	retryEvery := cfg.GetMinute("modules.notification.retry_sweep_minutes")
	if retryEvery <= 0 {
		retryEvery = 5 * time.Minute
	}

	scheduledEvery := cfg.GetMinute("modules.notification.scheduled_sweep_minutes")
	if scheduledEvery <= 0 {
		scheduledEvery = time.Minute
	}

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(pCtx, "Running job for retry sweep", "interval", retryEvery.String())
		runSweep(pCtx, retryEvery, uc.SweepRetries)
		return nil
	})

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(pCtx, "Running job for scheduled sweep", "interval", scheduledEvery.String())
		runSweep(pCtx, scheduledEvery, uc.SweepScheduled)
		return nil
	})
}

// runSweep calls fn on every tick until ctx is cancelled. A failed sweep is
// logged and retried on the next tick.
func runSweep(ctx context.Context, every time.Duration, fn func(context.Context) error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				slog.ErrorContext(ctx, "sweep run failed", "error", err)
			}
		}
	}
}
