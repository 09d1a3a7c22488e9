package http

import (
	"net/http"
	"time"

	"timemanager/internal/core"
	"timemanager/internal/log"
	"timemanager/internal/report"
	"timemanager/internal/timer"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireGet(w, r) {
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today string
	}{
		Today: s.now().Format("Monday, January 2"),
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.ActiveClients(),
			"status":         "ok",
		},
		"chart_cache": map[string]any{
			"entries": s.chartCache.Size(),
			"status":  "ok",
		},
	}
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

type dashboardResponse struct {
	Tasks        []core.Task        `json:"tasks"`
	Logs         []core.TimeLog     `json:"logs"`
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
	Balance      string             `json:"balance"`
	Timer        timer.State        `json:"timer"`
	TodayMinutes int                `json:"todayMinutes"`
	ActiveTasks  int                `json:"activeTasks"`
	Summary      report.Summary     `json:"summary"`
}

// handleDashboard returns everything the front end needs in one round trip.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	snap := s.state.Snapshot()
	writeJSON(w, http.StatusOK, dashboardResponse{
		Tasks:        snap.Tasks,
		Logs:         snap.Logs,
		Transactions: snap.Transactions,
		Categories:   snap.Categories,
		Balance:      core.FormatAmount(snap.Balance),
		Timer:        s.timer.State(),
		TodayMinutes: report.TodayMinutes(snap.Logs, s.now()),
		ActiveTasks:  report.ActiveTaskCount(snap.Tasks),
		Summary:      report.Summarize(snap.Transactions, snap.Balance),
	})
}

// handleLogout exists for front-end symmetry. There are no sessions to
// tear down, so it just acknowledges.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
