// Package report derives the dashboard's summary figures and chart series
// from the domain collections.
//
// Every function is pure: it takes the collections and an explicit
// reference time and performs a single pass, no hidden state and no wall
// clock reads, so callers pin the date in tests.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"timemanager/internal/core"
)

// Month is one bucket of the rolling window: a stable YYYY-MM key plus a
// human label.
type Month struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Time  time.Time `json:"-"`
}

// Series is the monthly income/expense breakdown for the bar view.
// Expense values are absolute.
type Series struct {
	Months  []Month           `json:"months"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

// Summary holds the dashboard's finance figures. Expense is reported as
// an absolute value; Net = Balance + Income - Expense.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// TodayMinutes sums the durations of time logs recorded on now's local
// calendar date, rounded to the nearest whole minute.
func TodayMinutes(logs []core.TimeLog, now time.Time) int {
	y, m, d := now.Date()
	seconds := 0
	for _, l := range logs {
		ly, lm, ld := l.Created.In(now.Location()).Date()
		if ly == y && lm == m && ld == d {
			seconds += l.DurationSeconds
		}
	}
	return int(math.Round(float64(seconds) / 60))
}

// ActiveTaskCount counts tasks not yet done.
func ActiveTaskCount(tasks []core.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// Summarize folds the ledger into income, absolute expense, and the net
// balance on top of the declared starting balance.
func Summarize(txns []core.Transaction, balance decimal.Decimal) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Amount.IsPositive() {
			income = income.Add(t.Amount)
		} else if t.Amount.IsNegative() {
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{
		Income:  income,
		Expense: expense.Abs(),
		Net:     balance.Add(income).Add(expense),
	}
}

// LastMonths returns the n calendar months ending at now's month, oldest
// first.
func LastMonths(n int, now time.Time) []Month {
	months := make([]Month, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		months = append(months, Month{
			Key:   fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month())),
			Label: d.Format("Jan 2006"),
			Time:  d,
		})
	}
	return months
}

// MonthlySeries buckets transactions into the rolling n-month window
// ending at now's month. Transactions outside the window are excluded
// outright, never clipped into the nearest bucket.
func MonthlySeries(txns []core.Transaction, n int, now time.Time) Series {
	months := LastMonths(n, now)
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m.Key] = i
	}

	income := make([]decimal.Decimal, len(months))
	expense := make([]decimal.Decimal, len(months))
	for i := range months {
		income[i], expense[i] = decimal.Zero, decimal.Zero
	}

	for _, t := range txns {
		created := t.Created.In(now.Location())
		key := fmt.Sprintf("%04d-%02d", created.Year(), int(created.Month()))
		i, ok := index[key]
		if !ok {
			continue
		}
		if t.Amount.IsNegative() {
			expense[i] = expense[i].Add(t.Amount.Abs())
		} else {
			income[i] = income[i].Add(t.Amount)
		}
	}

	return Series{Months: months, Income: income, Expense: expense}
}

// CategorySeries flattens the category collection into parallel label and
// value slices, in insertion order, for the pie view.
func CategorySeries(cats []core.Category) ([]string, []decimal.Decimal) {
	labels := make([]string, len(cats))
	values := make([]decimal.Decimal, len(cats))
	for i, c := range cats {
		labels[i] = c.Name
		values[i] = c.Value
	}
	return labels, values
}
