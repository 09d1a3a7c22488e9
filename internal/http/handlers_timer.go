package http

import (
	"net/http"

	"timemanager/internal/core"
	"timemanager/internal/timer"
)

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.timer.State())
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		TaskID int64 `json:"taskId"`
	}
	// an empty body means "no task selected"
	if err := decodeJSON(w, r, &req); err != nil {
		req.TaskID = core.NoTask
	}
	if req.TaskID != core.NoTask {
		s.timer.SetTask(req.TaskID)
	}
	s.timer.Start(r.Context())
	writeJSON(w, http.StatusOK, s.timer.State())
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.timer.Pause(r.Context())
	writeJSON(w, http.StatusOK, s.timer.State())
}

type stopResponse struct {
	Committed bool          `json:"committed"`
	Log       *core.TimeLog `json:"log,omitempty"`
	Timer     timer.State   `json:"timer"`
}

// handleTimerStop resets the stopwatch, recording a time log unless the
// elapsed time is still zero.
func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	entry, committed := s.timer.Stop(r.Context())
	resp := stopResponse{Committed: committed, Timer: s.timer.State()}
	if committed {
		resp.Log = &entry
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.state.Logs())
}
