package http

import (
	"net/http"

	"betledger/internal/core"
	"betledger/internal/selection"
)

type selectionResponse struct {
	Mode       selection.Mode `json:"mode"`
	AccountIDs []string       `json:"account_ids,omitempty"`
}

type selectionRequest struct {
	Action    string `json:"action"` // "overview", "select" or "toggle"
	AccountID string `json:"account_id,omitempty"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	mode, ids := s.svc.SelectionState()
	respondJSON(w, http.StatusOK, selectionResponse{Mode: mode, AccountIDs: ids})
}

func (s *Server) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, core.NewValidationError("body", err.Error()))
		return
	}

	ctx := r.Context()
	switch req.Action {
	case "overview":
		s.svc.EnterOverview(ctx)
	case "select":
		if req.AccountID == "" {
			respondError(w, core.NewValidationError("account_id", "missing"))
			return
		}
		if err := s.svc.SelectAccount(ctx, req.AccountID); err != nil {
			respondError(w, err)
			return
		}
	case "toggle":
		if req.AccountID == "" {
			respondError(w, core.NewValidationError("account_id", "missing"))
			return
		}
		s.svc.ToggleAccount(ctx, req.AccountID)
	default:
		respondError(w, core.NewValidationError("action", "must be overview, select or toggle"))
		return
	}

	s.invalidateStats()
	mode, ids := s.svc.SelectionState()
	respondJSON(w, http.StatusOK, selectionResponse{Mode: mode, AccountIDs: ids})
}
