// Package charts renders the two dashboard visualizations as PNG images:
// the rolling monthly income/expense bar chart and the editable category
// pie. The browser widget stays a consumer of labeled numeric series;
// these renderers are the server-side view of the same data.
package charts

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"timemanager/internal/log"
	"timemanager/internal/report"
)

// Renderer draws PNG charts from aggregation series.
type Renderer struct {
	logger *log.Logger
}

func NewRenderer(logger *log.Logger) *Renderer {
	return &Renderer{logger: logger.WithComponent(log.ComponentCharts)}
}

var (
	incomeColor  = drawing.Color{R: 0, G: 184, B: 148, A: 255}
	expenseColor = drawing.Color{R: 225, G: 112, B: 85, A: 255}
	idleColor    = drawing.Color{R: 200, G: 200, B: 200, A: 255}
)

// MonthlyBar renders the rolling-window series as paired income/expense
// bars, one pair per month, oldest first.
func (r *Renderer) MonthlyBar(s report.Series) ([]byte, error) {
	bars := make([]chart.Value, 0, 2*len(s.Months))
	for i, m := range s.Months {
		bars = append(bars,
			chart.Value{
				Label: m.Label,
				Value: s.Income[i].InexactFloat64(),
				Style: chart.Style{FillColor: incomeColor, StrokeColor: incomeColor},
			},
			chart.Value{
				Label: "",
				Value: s.Expense[i].InexactFloat64(),
				Style: chart.Style{FillColor: expenseColor, StrokeColor: expenseColor},
			},
		)
	}

	max := 0.0
	for _, b := range bars {
		if b.Value > max {
			max = b.Value
		}
	}

	graph := chart.BarChart{
		Width:    900,
		Height:   420,
		BarWidth: 40,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 30, Right: 30, Bottom: 30},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		Bars: bars,
	}
	if max == 0 {
		// a zero-filled window still renders an empty chart
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render monthly bar chart: %w", err)
	}
	r.logger.Debug("Monthly chart rendered", log.FieldOperation, log.OpRender, "bars", len(bars))
	return buf.Bytes(), nil
}

// CategoryPie renders the category series with the fixed palette cycled
// by position. An empty category list yields a single placeholder slice
// rather than an error.
func (r *Renderer) CategoryPie(labels []string, values []decimal.Decimal) ([]byte, error) {
	slices := make([]chart.Value, 0, len(labels))
	for i, label := range labels {
		v := values[i].InexactFloat64()
		if v <= 0 {
			// go-chart cannot draw non-positive slices
			continue
		}
		color := drawing.ColorFromHex(strings.TrimPrefix(report.SliceColor(i), "#"))
		slices = append(slices, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(slices) == 0 {
		slices = append(slices, chart.Value{
			Label: "No categories",
			Value: 1,
			Style: chart.Style{FillColor: idleColor, StrokeColor: idleColor},
		})
	}

	pie := chart.PieChart{
		Width:  520,
		Height: 520,
		Background: chart.Style{
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		Values: slices,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category pie chart: %w", err)
	}
	r.logger.Debug("Category chart rendered", log.FieldOperation, log.OpRender, "slices", len(slices))
	return buf.Bytes(), nil
}
