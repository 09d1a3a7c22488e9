package state

import (
	"github.com/shopspring/decimal"

	"timemanager/internal/core"
)

// Read accessors return copies; callers never see the store's own slices.

func (s *Store) Tasks() []core.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Logs() []core.TimeLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.TimeLog, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.cats))
	copy(out, s.cats)
	return out
}

func (s *Store) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// Snapshot returns all five collections in one consistent read.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := core.Snapshot{
		Tasks:        make([]core.Task, len(s.tasks)),
		Logs:         make([]core.TimeLog, len(s.logs)),
		Transactions: make([]core.Transaction, len(s.txns)),
		Categories:   make([]core.Category, len(s.cats)),
		Balance:      s.balance,
	}
	copy(snap.Tasks, s.tasks)
	copy(snap.Logs, s.logs)
	copy(snap.Transactions, s.txns)
	copy(snap.Categories, s.cats)
	return snap
}

// FindTask resolves a time log's task reference. A deleted or never-set
// task yields ok=false; that is the expected dangling-reference case, not
// an error.
func (s *Store) FindTask(id int64) (core.Task, bool) {
	if id == core.NoTask {
		return core.Task{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return core.Task{}, false
}

// FindTransaction resolves a ledger entry by id, for the export worker.
func (s *Store) FindTransaction(id int64) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.txns {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}
