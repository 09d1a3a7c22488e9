// Package state implements the domain store: the single ownership domain
// for tasks, time logs, ledger transactions, budget categories, and the
// starting balance.
//
// Every mutation follows the same sequence: validate, update the in-memory
// collection, flush the touched key to the persistence port, then notify
// change listeners. Validation failures and lookup misses are silent
// no-ops reported as sentinel errors so callers can tell them apart from
// real trouble; they are never surfaced to the user.
package state

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"timemanager/internal/core"
	"timemanager/internal/kv"
	"timemanager/internal/log"
)

// Change names the collection a mutation touched.
type Change string

const (
	ChangeTasks        Change = "tasks"
	ChangeLogs         Change = "logs"
	ChangeTransactions Change = "transactions"
	ChangeCategories   Change = "categories"
	ChangeBalance      Change = "balance"
)

// Publisher pushes a ledger-entry event after a transaction is recorded.
// A nil publisher disables the export pipeline.
type Publisher interface {
	PublishLedgerEntry(ctx context.Context, id int64) error
}

// Store owns the five persisted collections. Mutations are serialized by
// the internal mutex; the HTTP layer may call in from many goroutines but
// only one mutation runs at a time.
type Store struct {
	mu        sync.RWMutex
	store     kv.Store
	logger    *log.Logger
	publisher Publisher
	now       func() time.Time

	tasks    []core.Task
	logs     []core.TimeLog
	txns     []core.Transaction
	cats     []core.Category
	catIndex map[string]int // lowercased name -> position in cats
	balance  decimal.Decimal
	lastID   int64

	listeners []func(Change)
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher attaches a ledger event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(store kv.Store, logger *log.Logger, opts ...Option) *Store {
	s := &Store{
		store:    store,
		logger:   logger.WithComponent(log.ComponentState),
		now:      time.Now,
		catIndex: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a listener invoked synchronously after each
// successful mutation, outside the store lock.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	listeners := make([]func(Change), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(c)
	}
}

// Load hydrates the collections from the persistence port. A missing or
// malformed value for any key falls back to the empty collection or zero
// balance; load never fails on bad data, only on a broken store.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = loadCollection[core.Task](ctx, s, kv.KeyTasks)
	s.logs = loadCollection[core.TimeLog](ctx, s, kv.KeyLogs)
	s.txns = loadCollection[core.Transaction](ctx, s, kv.KeyTransactions)
	s.cats = loadCollection[core.Category](ctx, s, kv.KeyCategories)
	s.rebuildCategoryIndex()

	s.balance = decimal.Zero
	if raw, ok, err := s.store.Get(ctx, kv.KeyBalance); err == nil && ok {
		if b, perr := decimal.NewFromString(strings.TrimSpace(raw)); perr == nil {
			s.balance = b
		} else {
			s.logger.WarnContext(ctx, "Malformed stored balance, defaulting to zero",
				log.FieldKey, kv.KeyBalance, log.FieldError, perr.Error())
		}
	} else if err != nil {
		return err
	}

	for _, t := range s.tasks {
		s.observeID(t.ID)
	}
	for _, l := range s.logs {
		s.observeID(l.ID)
	}
	for _, t := range s.txns {
		s.observeID(t.ID)
	}

	s.logger.InfoContext(ctx, "State loaded",
		"tasks", len(s.tasks), "logs", len(s.logs),
		"transactions", len(s.txns), "categories", len(s.cats))
	return nil
}

func loadCollection[T any](ctx context.Context, s *Store, key string) []T {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed reading stored collection, defaulting to empty",
			log.FieldKey, key, log.FieldError, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.WarnContext(ctx, "Malformed stored collection, defaulting to empty",
			log.FieldKey, key, log.FieldError, err.Error())
		return nil
	}
	return out
}

// nextID allocates a creation-timestamp id, strictly increasing even when
// two records are created within the same millisecond.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) observeID(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

// flush serializes one collection under its key. Persistence is best
// effort: a write failure is logged and the in-memory mutation stands.
func (s *Store) flush(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to serialize collection",
			log.FieldKey, key, log.FieldError, err.Error())
		return
	}
	if err := s.store.Put(ctx, key, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to flush collection",
			log.FieldKey, key, log.FieldError, err.Error())
	}
}

// AddTask prepends a new open task. An empty (after trimming) title or an
// unknown priority rejects the mutation.
func (s *Store) AddTask(ctx context.Context, title string, priority core.Priority) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return core.ErrEmptyTitle
	}
	if !priority.Valid() {
		return core.ErrInvalidPriority
	}

	s.mu.Lock()
	task := core.Task{
		ID:       s.nextID(),
		Title:    title,
		Priority: priority,
		Created:  s.now(),
	}
	s.tasks = append([]core.Task{task}, s.tasks...)
	s.flush(ctx, kv.KeyTasks, s.tasks)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Task added",
		log.FieldOperation, log.OpAdd, log.FieldTaskID, task.ID, log.FieldPriority, string(priority))
	s.notify(ChangeTasks)
	return nil
}

// ToggleTask flips the done flag of the task with the given id. An
// unknown id is a no-op.
func (s *Store) ToggleTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.ErrNotFound
	}
	s.tasks[idx].Done = !s.tasks[idx].Done
	done := s.tasks[idx].Done
	s.flush(ctx, kv.KeyTasks, s.tasks)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Task toggled",
		log.FieldOperation, log.OpToggle, log.FieldTaskID, id, "done", done)
	s.notify(ChangeTasks)
	return nil
}

// DeleteTask removes the task with the given id. Time logs referencing it
// are left alone; their task reference dangles by design of the data
// model and renders as a generic label.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	kept := s.tasks[:0]
	found := false
	for _, t := range s.tasks {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		s.mu.Unlock()
		return core.ErrNotFound
	}
	s.tasks = kept
	s.flush(ctx, kv.KeyTasks, s.tasks)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Task deleted",
		log.FieldOperation, log.OpDelete, log.FieldTaskID, id)
	s.notify(ChangeTasks)
	return nil
}

// AddLog records a completed timer session. Durations under one second
// are rejected; the timer never commits them.
func (s *Store) AddLog(ctx context.Context, durationSeconds int, taskID int64) (core.TimeLog, error) {
	if durationSeconds < 1 {
		return core.TimeLog{}, core.ErrInvalidDuration
	}

	s.mu.Lock()
	entry := core.TimeLog{
		ID:              s.nextID(),
		DurationSeconds: durationSeconds,
		Created:         s.now(),
		TaskID:          taskID,
	}
	s.logs = append([]core.TimeLog{entry}, s.logs...)
	s.flush(ctx, kv.KeyLogs, s.logs)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Time log recorded",
		log.FieldOperation, log.OpAdd, log.FieldLogID, entry.ID,
		log.FieldSeconds, durationSeconds, log.FieldTaskID, taskID)
	s.notify(ChangeLogs)
	return entry, nil
}

// AddTransaction prepends a new ledger entry. An empty description or an
// unparseable amount rejects the mutation. On success a ledger event is
// published when a publisher is configured; publish failures never fail
// the mutation.
func (s *Store) AddTransaction(ctx context.Context, desc, amount, category string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return core.ErrEmptyDescription
	}
	val, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	txn := core.Transaction{
		ID:          s.nextID(),
		Description: desc,
		Amount:      val,
		Category:    strings.TrimSpace(category),
		Created:     s.now(),
	}
	s.txns = append([]core.Transaction{txn}, s.txns...)
	s.flush(ctx, kv.KeyTransactions, s.txns)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldOperation, log.OpAdd, log.FieldTxnID, txn.ID,
		log.FieldAmount, core.FormatAmount(val), log.FieldCategory, txn.Category)

	if s.publisher != nil {
		if err := s.publisher.PublishLedgerEntry(ctx, txn.ID); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish ledger event",
				log.FieldTxnID, txn.ID, log.FieldError, err.Error())
		}
	}

	s.notify(ChangeTransactions)
	return nil
}

// SetBalance overwrites the starting balance wholesale.
func (s *Store) SetBalance(ctx context.Context, amount string) error {
	val, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.balance = val
	// Balance is stored as a plain decimal string, not JSON.
	if err := s.store.Put(ctx, kv.KeyBalance, val.String()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to flush balance", log.FieldError, err.Error())
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Balance set",
		log.FieldOperation, log.OpUpdate, log.FieldAmount, core.FormatAmount(val))
	s.notify(ChangeBalance)
	return nil
}

// AddOrUpdateCategory upserts a budget category keyed by case-insensitive
// name. An update keeps the casing of the original submission.
func (s *Store) AddOrUpdateCategory(ctx context.Context, name, value string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	val, err := core.ParseAmount(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	key := strings.ToLower(name)
	op := log.OpAdd
	if idx, ok := s.catIndex[key]; ok {
		s.cats[idx].Value = val
		op = log.OpUpdate
	} else {
		s.cats = append(s.cats, core.Category{Name: name, Value: val})
		s.catIndex[key] = len(s.cats) - 1
	}
	s.flush(ctx, kv.KeyCategories, s.cats)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Category saved",
		log.FieldOperation, op, log.FieldCategory, name, log.FieldAmount, core.FormatAmount(val))
	s.notify(ChangeCategories)
	return nil
}

// DeleteCategory removes the category at the given display position. An
// out-of-range index is a no-op.
func (s *Store) DeleteCategory(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.cats) {
		s.mu.Unlock()
		return core.ErrNotFound
	}
	name := s.cats[index].Name
	s.cats = append(s.cats[:index], s.cats[index+1:]...)
	s.rebuildCategoryIndex()
	s.flush(ctx, kv.KeyCategories, s.cats)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Category deleted",
		log.FieldOperation, log.OpDelete, log.FieldCategory, name)
	s.notify(ChangeCategories)
	return nil
}

// ClearCategories removes every category.
func (s *Store) ClearCategories(ctx context.Context) error {
	s.mu.Lock()
	s.cats = nil
	s.catIndex = make(map[string]int)
	s.flush(ctx, kv.KeyCategories, []core.Category{})
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Categories cleared", log.FieldOperation, log.OpClear)
	s.notify(ChangeCategories)
	return nil
}

// rebuildCategoryIndex recomputes the normalized-name index. Caller holds
// the lock.
func (s *Store) rebuildCategoryIndex() {
	s.catIndex = make(map[string]int, len(s.cats))
	for i, c := range s.cats {
		s.catIndex[strings.ToLower(c.Name)] = i
	}
}

// LastCheckedDate returns the stored calendar date (YYYY-MM-DD) of the
// last month-rollover check, or "" when never checked.
func (s *Store) LastCheckedDate(ctx context.Context) string {
	raw, ok, err := s.store.Get(ctx, kv.KeyLastCheckedDate)
	if err != nil || !ok {
		return ""
	}
	return raw
}

// SetLastCheckedDate persists the rollover bookkeeping date.
func (s *Store) SetLastCheckedDate(ctx context.Context, date string) {
	if err := s.store.Put(ctx, kv.KeyLastCheckedDate, date); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist last checked date", log.FieldError, err.Error())
	}
}
