package scheduler

import (
	"context"
	"time"

	"poswatch/internal/logger"
)

// Interval runs a task on a fixed cadence until the context ends. Used
// by watch mode; single-run deployments rely on an external cron and
// never start one of these.
type Interval struct {
	Every          time.Duration
	RunImmediately bool

	ctx   context.Context
	nowFn func() time.Time
}

func NewInterval(ctx context.Context, every time.Duration) *Interval {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Interval{Every: every, ctx: ctx, nowFn: time.Now}
}

func (s *Interval) Start(task func()) {
	if s == nil || task == nil {
		return
	}
	if s.Every <= 0 {
		logger.Warnf("scheduler: invalid interval=%s, exit", s.Every)
		return
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}

	startAt := s.nowFn().UTC()
	logger.Infof("scheduler: started interval=%s run_immediately=%v at=%s",
		s.Every, s.RunImmediately, startAt.Format(time.RFC3339))

	if s.RunImmediately {
		task()
	}
	ticker := time.NewTicker(s.Every)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			logger.Infof("scheduler: context done after uptime=%s, stopping",
				s.nowFn().UTC().Sub(startAt).Truncate(time.Second))
			return
		case <-ticker.C:
			task()
		}
	}
}
