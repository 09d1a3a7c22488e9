package timer

import (
	"context"
	"time"

	"timemanager/internal/log"
)

// Bookkeeper persists the last calendar date the rollover check observed.
// The domain store implements it.
type Bookkeeper interface {
	LastCheckedDate(ctx context.Context) string
	SetLastCheckedDate(ctx context.Context, date string)
}

// RolloverWatcher runs a coarse once-per-minute check for a calendar month
// change and fires a callback when the observed month rolls over, so the
// monthly chart can be recomputed without a page reload.
type RolloverWatcher struct {
	store      Bookkeeper
	logger     *log.Logger
	onRollover func()
	interval   time.Duration
	now        func() time.Time
}

// WatcherOption configures a RolloverWatcher.
type WatcherOption func(*RolloverWatcher)

// WithCheckInterval overrides the check cadence, for tests.
func WithCheckInterval(d time.Duration) WatcherOption {
	return func(w *RolloverWatcher) { w.interval = d }
}

// WithWatcherClock overrides the wall clock, for tests.
func WithWatcherClock(now func() time.Time) WatcherOption {
	return func(w *RolloverWatcher) { w.now = now }
}

func NewRolloverWatcher(store Bookkeeper, logger *log.Logger, onRollover func(), opts ...WatcherOption) *RolloverWatcher {
	w := &RolloverWatcher{
		store:      store,
		logger:     logger.WithComponent(log.ComponentTimer),
		onRollover: onRollover,
		interval:   time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run checks until the context is cancelled.
func (w *RolloverWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check compares the stored date's month against today and fires the
// rollover callback on a change. Returns whether a rollover was seen.
func (w *RolloverWatcher) check(ctx context.Context) bool {
	today := w.now().Format("2006-01-02")
	last := w.store.LastCheckedDate(ctx)
	if last == "" {
		w.store.SetLastCheckedDate(ctx, today)
		return false
	}
	if len(last) >= 7 && last[:7] == today[:7] {
		return false
	}

	w.logger.InfoContext(ctx, "Month rollover detected",
		log.FieldOperation, log.OpRollover, log.FieldMonth, today[:7])
	if w.onRollover != nil {
		w.onRollover()
	}
	w.store.SetLastCheckedDate(ctx, today)
	return true
}
