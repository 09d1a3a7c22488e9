package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.Valid() {
			t.Errorf("Priority(%q).Valid() = false, want true", p)
		}
	}
	for _, p := range []Priority{"", "urgent", "LOW"} {
		if p.Valid() {
			t.Errorf("Priority(%q).Valid() = true, want false", p)
		}
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want error
	}{
		{
			name: "valid",
			task: Task{ID: 1, Title: "Write report", Priority: PriorityHigh, Created: time.Now()},
			want: nil,
		},
		{
			name: "empty title",
			task: Task{ID: 1, Title: "   ", Priority: PriorityLow},
			want: ErrEmptyTitle,
		},
		{
			name: "unknown priority",
			task: Task{ID: 1, Title: "x", Priority: "critical"},
			want: ErrInvalidPriority,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeLogValidate(t *testing.T) {
	if err := (TimeLog{ID: 1, DurationSeconds: 1}).Validate(); err != nil {
		t.Errorf("one second log should be valid, got %v", err)
	}
	if err := (TimeLog{ID: 1, DurationSeconds: 0}).Validate(); err != ErrInvalidDuration {
		t.Errorf("zero duration log: got %v, want ErrInvalidDuration", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	txn := Transaction{ID: 1, Description: "Salary", Amount: decimal.NewFromInt(500)}
	if err := txn.Validate(); err != nil {
		t.Errorf("valid transaction rejected: %v", err)
	}
	txn.Description = " "
	if err := txn.Validate(); err != ErrEmptyDescription {
		t.Errorf("blank description: got %v, want ErrEmptyDescription", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food", Value: decimal.NewFromInt(50)}).Validate(); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}
	if err := (Category{Name: ""}).Validate(); err != ErrEmptyName {
		t.Errorf("empty name: got %v, want ErrEmptyName", err)
	}
}
