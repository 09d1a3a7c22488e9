package timer

import (
	"context"
	"testing"

	"timemanager/internal/core"
	"timemanager/internal/kv"
	"timemanager/internal/log"
	"timemanager/internal/state"
)

func newTestTimer(t *testing.T) (*Timer, *state.Store) {
	t.Helper()
	logger := log.New(log.DefaultConfig())
	st := state.New(kv.NewMemory(), logger)
	return New(st, logger), st
}

// advance drives n ticks without waiting on the real ticker.
func advance(tm *Timer, n int) {
	for i := 0; i < n; i++ {
		tm.tick()
	}
}

func TestStopCommitsExactlyOneLog(t *testing.T) {
	tm, st := newTestTimer(t)
	ctx := context.Background()

	tm.Start(ctx)
	advance(tm, 5)
	tm.Pause(ctx) // halt the real ticker so the count stays deterministic

	entry, ok := tm.Stop(ctx)
	if !ok {
		t.Fatal("Stop with 5 seconds did not commit")
	}
	if entry.DurationSeconds != 5 {
		t.Errorf("DurationSeconds = %d, want 5", entry.DurationSeconds)
	}
	if got := tm.State(); got.Status != StatusIdle || got.Seconds != 0 {
		t.Errorf("state after stop = %+v, want idle/0", got)
	}

	// immediate second stop is a no-op
	if _, ok := tm.Stop(ctx); ok {
		t.Error("second Stop committed a log")
	}
	if n := len(st.Logs()); n != 1 {
		t.Errorf("log count = %d, want exactly 1", n)
	}
}

func TestStopAtZeroIsNoOp(t *testing.T) {
	tm, st := newTestTimer(t)
	ctx := context.Background()

	tm.Start(ctx)
	if _, ok := tm.Stop(ctx); ok {
		t.Error("Stop at zero seconds committed a log")
	}
	if n := len(st.Logs()); n != 0 {
		t.Errorf("log count = %d, want 0", n)
	}
	tm.Pause(ctx)
}

func TestPauseHaltsAndStartResumes(t *testing.T) {
	tm, _ := newTestTimer(t)
	ctx := context.Background()

	tm.Start(ctx)
	advance(tm, 3)
	tm.Pause(ctx)

	if got := tm.State(); got.Status != StatusPaused || got.Seconds != 3 {
		t.Fatalf("state after pause = %+v, want paused/3", got)
	}

	// paused ticks must not count
	advance(tm, 2)
	if got := tm.State().Seconds; got != 3 {
		t.Errorf("seconds advanced while paused: %d", got)
	}

	tm.Start(ctx)
	advance(tm, 2)
	tm.Pause(ctx)
	if got := tm.State().Seconds; got != 5 {
		t.Errorf("resume did not keep the count: %d, want 5", got)
	}
}

func TestPauseOnlyAppliesWhileRunning(t *testing.T) {
	tm, _ := newTestTimer(t)
	ctx := context.Background()

	tm.Pause(ctx)
	if got := tm.State().Status; got != StatusIdle {
		t.Errorf("pause from idle moved to %s", got)
	}
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	tm, _ := newTestTimer(t)
	ctx := context.Background()

	tm.Start(ctx)
	advance(tm, 2)
	tm.Start(ctx)
	advance(tm, 1)
	tm.Pause(ctx)

	if got := tm.State().Seconds; got != 3 {
		t.Errorf("re-entrant start reset the count: %d, want 3", got)
	}
}

func TestStopRecordsSelectedTask(t *testing.T) {
	tm, st := newTestTimer(t)
	ctx := context.Background()

	_ = st.AddTask(ctx, "focus work", core.PriorityHigh)
	taskID := st.Tasks()[0].ID

	tm.SetTask(taskID)
	tm.Start(ctx)
	advance(tm, 10)
	tm.Pause(ctx)
	entry, ok := tm.Stop(ctx)
	if !ok {
		t.Fatal("Stop did not commit")
	}
	if entry.TaskID != taskID {
		t.Errorf("TaskID = %d, want %d", entry.TaskID, taskID)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{5, "00:00:05"},
		{65, "00:01:05"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{99*3600 + 59*60 + 59, "99:59:59"},
		// past 99 hours the field grows instead of wrapping
		{100 * 3600, "100:00:00"},
		{-7, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
