package http

import (
	"net/http"

	"timemanager/internal/core"
)

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state.Tasks())
	case http.MethodPost:
		s.handleAddTask(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Priority string `json:"pr"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if req.Priority == "" {
		req.Priority = string(core.PriorityMedium)
	}
	if err := s.state.AddTask(r.Context(), sanitizeInput(req.Title), core.Priority(req.Priority)); err != nil {
		s.rejectOrFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.state.Tasks())
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.state.ToggleTask(r.Context(), req.ID); err != nil {
		s.rejectOrFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state.Tasks())
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.state.DeleteTask(r.Context(), req.ID); err != nil {
		s.rejectOrFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state.Tasks())
}
