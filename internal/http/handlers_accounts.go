package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
)

type accountRequest struct {
	Name           string           `json:"name"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := s.svc.Accounts()
	respondJSON(w, http.StatusOK, struct {
		Accounts             []core.Account  `json:"accounts"`
		TotalBalance         decimal.Decimal `json:"total_balance"`
		TotalInitialBalance  decimal.Decimal `json:"total_initial_balance"`
	}{accounts, s.svc.TotalBalance(), s.svc.TotalInitialBalance()})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, core.NewValidationError("body", err.Error()))
		return
	}
	if req.Name == "" {
		respondError(w, core.NewValidationError("name", "missing"))
		return
	}

	initial := decimal.Zero
	if req.InitialBalance != nil {
		initial = *req.InitialBalance
	}
	account, err := s.svc.AddAccount(r.Context(), req.Name, initial)
	if err != nil {
		respondError(w, err)
		return
	}

	s.invalidateStats()
	respondJSON(w, http.StatusCreated, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, core.NewValidationError("body", err.Error()))
		return
	}

	current, ok := s.svc.Account(id)
	if !ok {
		respondError(w, &core.NotFoundError{Kind: "account", ID: id})
		return
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	balance := current.Balance
	if req.Balance != nil {
		balance = *req.Balance
	}
	initial := current.InitialBalance
	if req.InitialBalance != nil {
		initial = *req.InitialBalance
	}

	if err := s.svc.EditAccount(r.Context(), id, name, balance, initial); err != nil {
		respondError(w, err)
		return
	}

	s.invalidateStats()
	updated, _ := s.svc.Account(id)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	s.invalidateStats()
	respondJSON(w, http.StatusNoContent, nil)
}
