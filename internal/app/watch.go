package app

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"poswatch/internal/logger"
	"poswatch/internal/scheduler"
	"poswatch/internal/transport/http/status"
)

// Watch re-runs the pipeline on a fixed interval and, when an HTTP
// address is configured, serves the read-only status API alongside. A
// failed run is reported and logged but does not stop the loop; only
// context cancellation does.
func (a *App) Watch(ctx context.Context) error {
	every, ok := scheduler.ParseInterval(a.cfg.Monitor.WatchInterval)
	if !ok {
		return fmt.Errorf("invalid monitor.watch_interval %q", a.cfg.Monitor.WatchInterval)
	}

	group, gctx := errgroup.WithContext(ctx)
	if addr := strings.TrimSpace(a.cfg.App.HTTPAddr); addr != "" {
		srv := status.NewServer(addr, a.store, a.runs)
		group.Go(func() error { return srv.Start(gctx) })
	}
	group.Go(func() error {
		loop := scheduler.NewInterval(gctx, every)
		loop.RunImmediately = true
		loop.Start(func() {
			if err := a.RunOnce(gctx); err != nil {
				logger.Errorf("watch: run failed: %v", err)
				a.NotifyFailure(err)
			}
		})
		return nil
	})
	return group.Wait()
}
