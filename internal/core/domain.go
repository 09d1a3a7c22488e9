package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NoTask is the TaskID sentinel for a time log recorded without a task.
const NoTask int64 = 0

type (
	Priority string

	// Task is a to-do item. The ID doubles as creation order: it is a
	// unix-millisecond timestamp, bumped on collision so newer always
	// means larger.
	Task struct {
		ID       int64     `json:"id"`
		Title    string    `json:"title"`
		Priority Priority  `json:"pr"`
		Done     bool      `json:"done"`
		Created  time.Time `json:"created"`
	}

	// TimeLog is an immutable record of one completed timer session.
	// TaskID is a weak reference: the task may have been deleted since,
	// and lookups must treat a miss as "no task", not as an error.
	TimeLog struct {
		ID              int64     `json:"id"`
		DurationSeconds int       `json:"dur"`
		Created         time.Time `json:"created"`
		TaskID          int64     `json:"taskId,omitempty"`
	}

	// Transaction is a single ledger entry. Positive amounts are income,
	// negative amounts are expenses.
	Transaction struct {
		ID          int64           `json:"id"`
		Description string          `json:"desc"`
		Amount      decimal.Decimal `json:"val"`
		Category    string          `json:"cat"`
		Created     time.Time       `json:"created"`
	}

	// Category is a user-defined budget bucket for the pie view. It is
	// keyed case-insensitively by name; the display casing of the first
	// submission wins.
	Category struct {
		Name  string          `json:"name"`
		Value decimal.Decimal `json:"value"`
	}

	// Snapshot bundles the five persisted collections.
	Snapshot struct {
		Tasks        []Task
		Logs         []TimeLog
		Transactions []Transaction
		Categories   []Category
		Balance      decimal.Decimal
	}
)

var (
	ErrEmptyTitle       = errors.New("empty task title")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty category name")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrNotFound         = errors.New("not found")
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

func (l TimeLog) Validate() error {
	if l.DurationSeconds < 1 {
		return ErrInvalidDuration
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
