package http

import (
	"net/http"

	"betledger/internal/core"
)

type createEntriesRequest struct {
	AccountID string       `json:"account_id,omitempty"`
	Entries   []core.Entry `json:"entries"`
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.EntriesForSelection()
	respondJSON(w, http.StatusOK, struct {
		Entries []core.Entry `json:"entries"`
		Count   int          `json:"count"`
	}{entries, len(entries)})
}

// handleCreateEntries accepts a batch of entries for one account: the
// explicit account_id when given, otherwise the single selected account.
func (s *Server) handleCreateEntries(w http.ResponseWriter, r *http.Request) {
	var req createEntriesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, core.NewValidationError("body", err.Error()))
		return
	}
	if len(req.Entries) == 0 {
		respondError(w, core.NewValidationError("entries", "empty batch"))
		return
	}

	persisted, err := s.svc.AddEntries(r.Context(), req.AccountID, req.Entries)
	if err != nil {
		respondError(w, err)
		return
	}

	s.invalidateStats()
	respondJSON(w, http.StatusCreated, struct {
		Entries []core.Entry `json:"entries"`
		Count   int          `json:"count"`
	}{persisted, len(persisted)})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.Entry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, core.NewValidationError("body", err.Error()))
		return
	}
	entry.ID = r.PathValue("id")

	if err := s.svc.UpdateEntry(r.Context(), entry); err != nil {
		respondError(w, err)
		return
	}

	s.invalidateStats()
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	s.invalidateStats()
	respondJSON(w, http.StatusNoContent, nil)
}
