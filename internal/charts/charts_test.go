package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"timemanager/internal/core"
	"timemanager/internal/log"
	"timemanager/internal/report"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newRenderer() *Renderer {
	return NewRenderer(log.New(log.DefaultConfig()))
}

func TestMonthlyBarRendersPNG(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	txns := []core.Transaction{
		{ID: 1, Amount: decimal.NewFromInt(500), Created: now},
		{ID: 2, Amount: decimal.NewFromInt(-300), Created: now},
	}
	s := report.MonthlySeries(txns, 6, now)

	png, err := newRenderer().MonthlyBar(s)
	if err != nil {
		t.Fatalf("MonthlyBar: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestMonthlyBarEmptyLedger(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	png, err := newRenderer().MonthlyBar(report.MonthlySeries(nil, 6, now))
	if err != nil {
		t.Fatalf("MonthlyBar on zero series: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryPieRendersPNG(t *testing.T) {
	labels := []string{"Rent", "Food", "Fun"}
	values := []decimal.Decimal{
		decimal.NewFromInt(800),
		decimal.NewFromInt(300),
		decimal.NewFromInt(120),
	}

	png, err := newRenderer().CategoryPie(labels, values)
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryPieEmptyUsesPlaceholder(t *testing.T) {
	png, err := newRenderer().CategoryPie(nil, nil)
	if err != nil {
		t.Fatalf("CategoryPie on empty list: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}
