// Package memory holds an in-process LedgerWriter used by tests and by
// deployments without spreadsheet credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"timemanager/internal/core"
	"timemanager/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	entries []core.Transaction
}

var _ sheets.LedgerWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, txn core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, txn)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// Entries returns the appended transactions, oldest first.
func (s *Store) Entries() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.entries))
	copy(out, s.entries)
	return out
}
