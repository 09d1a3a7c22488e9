// Package kv defines the key-value persistence port of the dashboard.
//
// Each domain collection is flushed independently under its own key; there
// is no multi-key atomicity. Implementations must be safe for concurrent
// use.
package kv

import "context"

// Store reads and writes named UTF-8 values.
type Store interface {
	// Get returns the stored value for key. The second return is false
	// when the key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put overwrites the value stored under key.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Persisted state keys. They are stable across reloads: the same names the
// original browser build kept in localStorage, so an exported store stays
// readable.
const (
	KeyTasks           = "tm_tasks"
	KeyLogs            = "tm_logs"
	KeyTransactions    = "tm_txns"
	KeyCategories      = "tm_cats"
	KeyBalance         = "tm_balance"
	KeyLastCheckedDate = "tm_last_checked_date"
)
