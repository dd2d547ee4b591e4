// Package app wires the pipeline together and owns the per-run control
// flow: load snapshot, fetch, extract, normalize, diff, compose, send,
// save.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"poswatch/internal/config"
	"poswatch/internal/diff"
	"poswatch/internal/extract"
	"poswatch/internal/heartbeat"
	"poswatch/internal/logger"
	"poswatch/internal/notifier"
	"poswatch/internal/position"
	"poswatch/internal/render"
	"poswatch/internal/runlog"
	"poswatch/internal/state"
)

type App struct {
	cfg      *config.Config
	store    state.Store
	runs     *runlog.Store
	renderer *render.PageRenderer
	chain    *extract.Chain
	sink     notifier.TextNotifier
	nowFn    func() time.Time
}

func New(cfg *config.Config) (*App, error) {
	store, err := state.Open(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}
	var runs *runlog.Store
	if cfg.State.RunLogPath != "" {
		runs, err = runlog.Open(cfg.State.RunLogPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("opening runlog: %w", err)
		}
	}
	renderer := render.New(render.Options{
		URL:         cfg.Trader.URL,
		UserAgent:   cfg.Trader.UserAgent,
		ChromePath:  cfg.Trader.ChromePath,
		Headless:    cfg.Trader.Headless,
		NavTimeout:  time.Duration(cfg.Trader.NavTimeoutSeconds) * time.Second,
		SettleDelay: time.Duration(cfg.Trader.SettleDelayMs) * time.Millisecond,
	})
	var sink notifier.TextNotifier
	if cfg.Notify.Telegram.Configured() {
		sink = notifier.NewTelegram(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	} else {
		logger.Warnf("app: telegram not configured, reports go to the local log only")
		sink = notifier.NewLog()
	}
	return &App{
		cfg:      cfg,
		store:    store,
		runs:     runs,
		renderer: renderer,
		chain:    extract.DefaultChain(),
		sink:     sink,
		nowFn:    time.Now,
	}, nil
}

func (a *App) Close() error {
	if a.runs != nil {
		if err := a.runs.Close(); err != nil {
			logger.Warnf("app: closing runlog: %v", err)
		}
	}
	return a.store.Close()
}

// RunOnce executes one full monitor pass. The snapshot is only replaced
// after a successful (or unnecessary) notification, so a failed delivery
// re-alerts on the next run instead of being silently forgotten.
func (a *App) RunOnce(ctx context.Context) error {
	now := a.nowFn()
	entry := runlog.Entry{RunID: uuid.NewString(), StartedAt: now.UnixMilli()}
	logger.Infof("run %s: checking %s", entry.RunID, a.cfg.Trader.URL)

	prev := a.store.Load()

	content, err := a.renderer.Fetch(ctx)
	if err != nil {
		a.finishRun(entry, runlog.OutcomeError, err)
		return err
	}

	res := a.chain.Extract(content)
	positions := position.Normalize(res.Positions)
	var orders []position.Order
	if a.cfg.Trader.TrackOrders {
		orders = position.NormalizeOrders(res.Orders)
	}
	entry.Strategy = res.Strategy
	entry.Positions = len(positions)

	// A page that rendered without its positions section is
	// indistinguishable from an account that closed everything; with
	// the guard on we treat "tracked positions but zero rows" as a
	// scrape failure and keep the old baseline.
	if a.cfg.Monitor.GuardEmpty && len(positions) == 0 && len(prev.Keys) > 0 {
		logger.Warnf("run %s: extraction found 0 positions while %d were tracked, skipping diff",
			entry.RunID, len(prev.Keys))
		a.sendBestEffort(fmt.Sprintf(
			"⚠️ Position monitor: scrape returned no positions while %d were tracked; skipping this run.\n%s",
			len(prev.Keys), a.cfg.Trader.URL))
		a.finishRun(entry, runlog.OutcomeSkipped, nil)
		return nil
	}

	tol := diff.Tolerances{Abs: a.cfg.Monitor.SizeTol, Rel: a.cfg.Monitor.SizeTolRel}
	changes := diff.Diff(prev, positions, orders, tol)
	hbDue := heartbeat.Due(prev.LastHeartbeat, a.cfg.Monitor.HeartbeatHours, now)
	entry.Opened = len(changes.Opened)
	entry.Closed = len(changes.Closed)
	entry.Resized = len(changes.Resized)
	entry.Heartbeat = hbDue

	next := state.Next(prev, positions, orders)
	if hbDue {
		next.LastHeartbeat = now.UnixMilli()
	}

	text := notifier.Compose(notifier.Report{
		Source:         a.cfg.Trader.URL,
		HeartbeatDue:   hbDue,
		HeartbeatHours: a.cfg.Monitor.HeartbeatHours,
		Positions:      positions,
		Changes:        changes,
		TrackOrders:    a.cfg.Trader.TrackOrders,
	})

	outcome := runlog.OutcomeNoChange
	if text != "" {
		if err := a.sink.SendText(text); err != nil {
			err = fmt.Errorf("notification delivery failed: %w", err)
			a.finishRun(entry, runlog.OutcomeError, err)
			return err
		}
		outcome = runlog.OutcomeOK
	} else {
		logger.Infof("run %s: no changes", entry.RunID)
	}

	if err := a.store.Save(next); err != nil {
		a.finishRun(entry, runlog.OutcomeError, err)
		return err
	}
	a.finishRun(entry, outcome, nil)
	return nil
}

// NotifyFailure makes a best-effort attempt to report a failed run
// through the same transport before the process exits non-zero.
func (a *App) NotifyFailure(runErr error) {
	a.sendBestEffort(fmt.Sprintf("⚠️ Position monitor error: %v", runErr))
}

func (a *App) sendBestEffort(text string) {
	if err := a.sink.SendText(text); err != nil {
		logger.Warnf("app: best-effort notification failed: %v", err)
	}
}

func (a *App) finishRun(entry runlog.Entry, outcome string, runErr error) {
	entry.FinishedAt = a.nowFn().UnixMilli()
	entry.Outcome = outcome
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if a.runs == nil {
		return
	}
	if err := a.runs.Append(entry); err != nil {
		logger.Warnf("app: recording run failed: %v", err)
	}
}
