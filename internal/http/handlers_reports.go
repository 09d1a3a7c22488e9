package http

import (
	"net/http"

	"timemanager/internal/log"
	"timemanager/internal/report"
)

const chartMonths = 6

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, report.MonthlySeries(s.state.Transactions(), chartMonths, s.now()))
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.serveChart(w, r, "monthly", func() ([]byte, error) {
		return s.renderer.MonthlyBar(report.MonthlySeries(s.state.Transactions(), chartMonths, s.now()))
	})
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.serveChart(w, r, "categories", func() ([]byte, error) {
		labels, values := report.CategorySeries(s.state.Categories())
		return s.renderer.CategoryPie(labels, values)
	})
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, key string, render func() ([]byte, error)) {
	png, ok := s.chartCache.Get(key)
	if !ok {
		var err error
		png, err = render()
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Chart render failed",
				log.FieldOperation, log.OpRender, log.FieldKey, key, log.FieldError, err)
			http.Error(w, "chart render failed", http.StatusInternalServerError)
			return
		}
		s.chartCache.Set(key, png)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}
