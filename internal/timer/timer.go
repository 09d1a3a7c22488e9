// Package timer implements the work stopwatch and the calendar rollover
// watcher.
//
// The stopwatch is a three-state machine (idle, running, paused) counting
// whole seconds. Stopping with at least one second on the clock commits a
// time log through the domain store; stopping at zero commits nothing.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timemanager/internal/core"
	"timemanager/internal/log"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Recorder commits completed sessions. The domain store implements it.
type Recorder interface {
	AddLog(ctx context.Context, durationSeconds int, taskID int64) (core.TimeLog, error)
}

// State is a read-only view of the stopwatch for the presentation layer.
type State struct {
	Status  Status `json:"status"`
	Seconds int    `json:"seconds"`
	Display string `json:"display"`
	TaskID  int64  `json:"taskId,omitempty"`
}

// Timer is the stopwatch. The per-second tick runs on its own goroutine,
// cancelled by pause and stop rather than tied to process lifetime.
type Timer struct {
	mu       sync.Mutex
	recorder Recorder
	logger   *log.Logger
	interval time.Duration

	status  Status
	seconds int
	taskID  int64
	stopCh  chan struct{}
}

// Option configures a Timer.
type Option func(*Timer)

// WithInterval overrides the tick interval, for tests.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) { t.interval = d }
}

func New(recorder Recorder, logger *log.Logger, opts ...Option) *Timer {
	t := &Timer{
		recorder: recorder,
		logger:   logger.WithComponent(log.ComponentTimer),
		interval: time.Second,
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetTask selects the task the next committed session will reference.
// core.NoTask clears the selection.
func (t *Timer) SetTask(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.taskID = id
}

// Start moves the stopwatch to running. Starting while already running is
// a no-op; starting from paused resumes from the current count.
func (t *Timer) Start(ctx context.Context) {
	t.mu.Lock()
	if t.status == StatusRunning {
		t.mu.Unlock()
		return
	}
	resumed := t.status == StatusPaused
	t.status = StatusRunning
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	t.mu.Unlock()

	go t.run(stopCh)

	if resumed {
		t.logger.InfoContext(ctx, "Timer resumed", log.FieldOperation, log.OpStart)
	} else {
		t.logger.InfoContext(ctx, "Timer started", log.FieldOperation, log.OpStart)
	}
}

func (t *Timer) run(stopCh chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.tick()
		case <-stopCh:
			return
		}
	}
}

// tick advances the count by one second while running.
func (t *Timer) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusRunning {
		t.seconds++
	}
}

// Pause halts the count. It only applies while running.
func (t *Timer) Pause(ctx context.Context) {
	t.mu.Lock()
	if t.status != StatusRunning {
		t.mu.Unlock()
		return
	}
	t.status = StatusPaused
	t.cancelTickLocked()
	seconds := t.seconds
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "Timer paused", log.FieldOperation, log.OpPause, log.FieldSeconds, seconds)
}

// Stop commits the session and resets to idle. With zero seconds on the
// clock it is a no-op: no log, no state change.
func (t *Timer) Stop(ctx context.Context) (core.TimeLog, bool) {
	t.mu.Lock()
	if t.status == StatusIdle || t.seconds == 0 {
		t.mu.Unlock()
		return core.TimeLog{}, false
	}
	seconds := t.seconds
	taskID := t.taskID
	t.cancelTickLocked()
	t.status = StatusIdle
	t.seconds = 0
	t.mu.Unlock()

	entry, err := t.recorder.AddLog(ctx, seconds, taskID)
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to record session",
			log.FieldOperation, log.OpStop, log.FieldSeconds, seconds, log.FieldError, err.Error())
		return core.TimeLog{}, false
	}

	t.logger.InfoContext(ctx, "Timer stopped",
		log.FieldOperation, log.OpStop, log.FieldLogID, entry.ID, log.FieldSeconds, seconds)
	return entry, true
}

// cancelTickLocked stops the running tick goroutine. Caller holds the lock.
func (t *Timer) cancelTickLocked() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

// State returns the current stopwatch view.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{
		Status:  t.status,
		Seconds: t.seconds,
		Display: FormatElapsed(t.seconds),
		TaskID:  t.taskID,
	}
}

// FormatElapsed renders elapsed seconds as zero-padded HH:MM:SS. The hour
// field grows beyond two digits rather than wrapping.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
