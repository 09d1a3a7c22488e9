package state

import (
	"context"
	"testing"
	"time"

	"timemanager/internal/core"
	"timemanager/internal/kv"
	"timemanager/internal/log"
)

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := New(mem, log.New(log.DefaultConfig()))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, mem
}

func TestAddTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.AddTask(ctx, "Write report", core.PriorityHigh); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := s.AddTask(ctx, "Review PR", core.PriorityLow); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	// newest first
	if tasks[0].Title != "Review PR" {
		t.Errorf("tasks[0].Title = %q, want newest first", tasks[0].Title)
	}
	if tasks[0].ID <= tasks[1].ID {
		t.Errorf("ids not increasing with creation order: %d then %d", tasks[1].ID, tasks[0].ID)
	}
	if tasks[0].Done || tasks[1].Done {
		t.Error("new tasks must start open")
	}
}

func TestAddTaskValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		title    string
		priority core.Priority
		want     error
	}{
		{name: "blank title", title: "   ", priority: core.PriorityLow, want: core.ErrEmptyTitle},
		{name: "unknown priority", title: "x", priority: "urgent", want: core.ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddTask(ctx, tt.title, tt.priority); err != tt.want {
				t.Errorf("AddTask err = %v, want %v", err, tt.want)
			}
		})
	}
	if n := len(s.Tasks()); n != 0 {
		t.Errorf("rejected mutations changed state: %d tasks", n)
	}
}

func TestToggleTaskIsIdempotentUnderDoubleApplication(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.AddTask(ctx, "flip me", core.PriorityMedium); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	id := s.Tasks()[0].ID

	if err := s.ToggleTask(ctx, id); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !s.Tasks()[0].Done {
		t.Fatal("task not marked done after toggle")
	}
	if err := s.ToggleTask(ctx, id); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if s.Tasks()[0].Done {
		t.Error("double toggle did not restore original done value")
	}

	if err := s.ToggleTask(ctx, 42); err != core.ErrNotFound {
		t.Errorf("toggle unknown id err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTaskTwiceIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_ = s.AddTask(ctx, "doomed", core.PriorityLow)
	_ = s.AddTask(ctx, "survivor", core.PriorityLow)
	id := s.Tasks()[1].ID

	if err := s.DeleteTask(ctx, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if n := len(s.Tasks()); n != 1 {
		t.Fatalf("len(tasks) = %d after delete, want 1", n)
	}
	if err := s.DeleteTask(ctx, id); err != core.ErrNotFound {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if n := len(s.Tasks()); n != 1 {
		t.Errorf("second delete changed collection size: %d", n)
	}
}

func TestDeleteTaskKeepsDanglingLogReference(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_ = s.AddTask(ctx, "tracked", core.PriorityHigh)
	id := s.Tasks()[0].ID
	if _, err := s.AddLog(ctx, 120, id); err != nil {
		t.Fatalf("AddLog: %v", err)
	}
	if err := s.DeleteTask(ctx, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	logs := s.Logs()
	if len(logs) != 1 {
		t.Fatalf("log cascaded away with task delete")
	}
	if logs[0].TaskID != id {
		t.Errorf("log TaskID rewritten to %d, want dangling %d", logs[0].TaskID, id)
	}
	if _, ok := s.FindTask(logs[0].TaskID); ok {
		t.Error("FindTask resolved a deleted task")
	}
}

func TestAddLogRejectsSubSecondDurations(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.AddLog(context.Background(), 0, core.NoTask); err != core.ErrInvalidDuration {
		t.Errorf("AddLog(0) err = %v, want ErrInvalidDuration", err)
	}
	if n := len(s.Logs()); n != 0 {
		t.Errorf("rejected log recorded anyway: %d entries", n)
	}
}

func TestFinanceScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.SetBalance(ctx, "100.00"); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if err := s.AddTransaction(ctx, "Salary", "500.00", "work"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := s.AddTransaction(ctx, "Rent", "-300.00", "home"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	txns := s.Transactions()
	if len(txns) != 2 {
		t.Fatalf("len(txns) = %d, want 2", len(txns))
	}
	if txns[0].Description != "Rent" {
		t.Errorf("transactions not newest first: %q", txns[0].Description)
	}
	if got := s.Balance().String(); got != "100" {
		t.Errorf("Balance = %s, want 100", got)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.AddTransaction(ctx, "", "10", "misc"); err != core.ErrEmptyDescription {
		t.Errorf("empty desc err = %v, want ErrEmptyDescription", err)
	}
	if err := s.AddTransaction(ctx, "oops", "not-a-number", "misc"); err != core.ErrInvalidAmount {
		t.Errorf("bad amount err = %v, want ErrInvalidAmount", err)
	}
	if err := s.SetBalance(ctx, "NaNish"); err != core.ErrInvalidAmount {
		t.Errorf("bad balance err = %v, want ErrInvalidAmount", err)
	}
	if n := len(s.Transactions()); n != 0 {
		t.Errorf("rejected mutations changed state: %d txns", n)
	}
}

func TestCategoryUpsertIsCaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.AddOrUpdateCategory(ctx, "Food", "50"); err != nil {
		t.Fatalf("AddOrUpdateCategory: %v", err)
	}
	if err := s.AddOrUpdateCategory(ctx, "food", "75"); err != nil {
		t.Fatalf("AddOrUpdateCategory: %v", err)
	}

	cats := s.Categories()
	if len(cats) != 1 {
		t.Fatalf("len(categories) = %d, want 1", len(cats))
	}
	if cats[0].Name != "Food" {
		t.Errorf("Name = %q, want original casing Food", cats[0].Name)
	}
	if cats[0].Value.String() != "75" {
		t.Errorf("Value = %s, want 75", cats[0].Value)
	}
}

func TestDeleteCategoryByPosition(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, c := range []string{"Rent", "Food", "Fun"} {
		if err := s.AddOrUpdateCategory(ctx, c, "10"); err != nil {
			t.Fatalf("AddOrUpdateCategory(%s): %v", c, err)
		}
	}

	if err := s.DeleteCategory(ctx, 1); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	cats := s.Categories()
	if len(cats) != 2 || cats[0].Name != "Rent" || cats[1].Name != "Fun" {
		t.Fatalf("wrong entry removed: %+v", cats)
	}

	// the index of Fun shifted from 2 to 1; a delete at the recomputed
	// position must remove Fun, not fall off the end
	if err := s.DeleteCategory(ctx, 1); err != nil {
		t.Fatalf("DeleteCategory after shift: %v", err)
	}
	if cats := s.Categories(); len(cats) != 1 || cats[0].Name != "Rent" {
		t.Fatalf("positional delete after shift removed wrong entry: %+v", cats)
	}

	if err := s.DeleteCategory(ctx, 5); err != core.ErrNotFound {
		t.Errorf("out of range delete err = %v, want ErrNotFound", err)
	}
}

func TestClearCategories(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_ = s.AddOrUpdateCategory(ctx, "Food", "50")
	if err := s.ClearCategories(ctx); err != nil {
		t.Fatalf("ClearCategories: %v", err)
	}
	if n := len(s.Categories()); n != 0 {
		t.Fatalf("categories left after clear: %d", n)
	}
	// upsert after clear must append, not resurrect a stale index entry
	if err := s.AddOrUpdateCategory(ctx, "Food", "20"); err != nil {
		t.Fatalf("AddOrUpdateCategory after clear: %v", err)
	}
	if cats := s.Categories(); len(cats) != 1 || cats[0].Value.String() != "20" {
		t.Fatalf("unexpected categories after clear+add: %+v", cats)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	mem := kv.NewMemory()
	logger := log.New(log.DefaultConfig())
	ctx := context.Background()

	s := New(mem, logger)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	_ = s.AddTask(ctx, "persist me", core.PriorityHigh)
	_, _ = s.AddLog(ctx, 300, s.Tasks()[0].ID)
	_ = s.AddTransaction(ctx, "Salary", "500.00", "work")
	_ = s.AddOrUpdateCategory(ctx, "Food", "50")
	_ = s.SetBalance(ctx, "100.00")

	// fresh store over the same kv contents
	reloaded := New(mem, logger)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	a, b := s.Snapshot(), reloaded.Snapshot()
	if len(b.Tasks) != 1 || b.Tasks[0].Title != a.Tasks[0].Title || b.Tasks[0].ID != a.Tasks[0].ID {
		t.Errorf("tasks did not round-trip: %+v vs %+v", a.Tasks, b.Tasks)
	}
	if len(b.Logs) != 1 || b.Logs[0].DurationSeconds != 300 || b.Logs[0].TaskID != a.Logs[0].TaskID {
		t.Errorf("logs did not round-trip: %+v", b.Logs)
	}
	if len(b.Transactions) != 1 || !b.Transactions[0].Amount.Equal(a.Transactions[0].Amount) {
		t.Errorf("transactions did not round-trip: %+v", b.Transactions)
	}
	if len(b.Categories) != 1 || b.Categories[0].Name != "Food" {
		t.Errorf("categories did not round-trip: %+v", b.Categories)
	}
	if !b.Balance.Equal(a.Balance) {
		t.Errorf("balance did not round-trip: %s vs %s", a.Balance, b.Balance)
	}
}

func TestLoadToleratesMalformedValues(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	_ = mem.Put(ctx, kv.KeyTasks, "{definitely not json")
	_ = mem.Put(ctx, kv.KeyBalance, "garbage")

	s := New(mem, log.New(log.DefaultConfig()))
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load over malformed values: %v", err)
	}
	if n := len(s.Tasks()); n != 0 {
		t.Errorf("tasks = %d, want empty fallback", n)
	}
	if !s.Balance().IsZero() {
		t.Errorf("balance = %s, want zero fallback", s.Balance())
	}
}

func TestIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(kv.NewMemory(), log.New(log.DefaultConfig()), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.AddTask(ctx, "same instant", core.PriorityLow); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	tasks := s.Tasks()
	seen := make(map[int64]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

type recordingPublisher struct {
	ids []int64
	err error
}

func (p *recordingPublisher) PublishLedgerEntry(_ context.Context, id int64) error {
	p.ids = append(p.ids, id)
	return p.err
}

func TestAddTransactionPublishesLedgerEvent(t *testing.T) {
	pub := &recordingPublisher{}
	s := New(kv.NewMemory(), log.New(log.DefaultConfig()), WithPublisher(pub))
	ctx := context.Background()

	if err := s.AddTransaction(ctx, "Salary", "500", "work"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if len(pub.ids) != 1 || pub.ids[0] != s.Transactions()[0].ID {
		t.Errorf("published ids = %v, want the new transaction id", pub.ids)
	}

	// a failing publisher must not fail the mutation
	pub.err = context.DeadlineExceeded
	if err := s.AddTransaction(ctx, "Rent", "-300", "home"); err != nil {
		t.Errorf("AddTransaction with failing publisher: %v", err)
	}
	if n := len(s.Transactions()); n != 2 {
		t.Errorf("transaction dropped on publish failure: %d", n)
	}
}

func TestOnChangeNotifies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	_ = s.AddTask(ctx, "a", core.PriorityLow)
	_ = s.AddTransaction(ctx, "b", "1", "")
	_ = s.AddTask(ctx, "", core.PriorityLow) // rejected, must not notify

	want := []Change{ChangeTasks, ChangeTransactions}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %s, want %s", i, changes[i], want[i])
		}
	}
}
