package http

import (
	"net/http"

	"timemanager/internal/core"
	"timemanager/internal/report"
)

type financeResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Balance      string             `json:"balance"`
	Summary      report.Summary     `json:"summary"`
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	txns := s.state.Transactions()
	balance := s.state.Balance()
	writeJSON(w, http.StatusOK, financeResponse{
		Transactions: txns,
		Balance:      core.FormatAmount(balance),
		Summary:      report.Summarize(txns, balance),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state.Transactions())
	case http.MethodPost:
		s.handleAddTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"desc"`
		Amount      string `json:"val"`
		Category    string `json:"cat"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	err := s.state.AddTransaction(r.Context(),
		sanitizeInput(req.Description), req.Amount, sanitizeInput(req.Category))
	if err != nil {
		s.rejectOrFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.state.Transactions())
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"balance": core.FormatAmount(s.state.Balance())})
	case http.MethodPost:
		var req struct {
			Value string `json:"val"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.state.SetBalance(r.Context(), req.Value); err != nil {
			s.rejectOrFail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"balance": core.FormatAmount(s.state.Balance())})
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state.Categories())
	case http.MethodPost:
		var req struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.state.AddOrUpdateCategory(r.Context(), sanitizeInput(req.Name), req.Value); err != nil {
			s.rejectOrFail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.state.Categories())
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleDeleteCategory removes by list position, which is how the pie
// legend addresses its slices.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.state.DeleteCategory(r.Context(), req.Index); err != nil {
		s.rejectOrFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state.Categories())
}

func (s *Server) handleClearCategories(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := s.state.ClearCategories(r.Context()); err != nil {
		s.rejectOrFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
