package http

import (
	"io"
	"net/http"

	"betledger/internal/core"
	"betledger/internal/csvio"
)

// maxImportBytes bounds uploaded files well above any realistic export.
const maxImportBytes = 32 << 20

// handleImport ingests a delimited file: parseable rows are appended to the
// target account, malformed ones are reported per row without aborting the
// batch.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	// Accept either a multipart upload under "file" or a raw CSV body.
	body := io.Reader(r.Body)
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}

	result, err := csvio.Import(body)
	if err != nil {
		respondError(w, core.NewValidationError("file", err.Error()))
		return
	}

	var persisted []core.Entry
	if len(result.Accepted) > 0 {
		persisted, err = s.svc.AddEntries(r.Context(), accountID, result.Accepted)
		if err != nil {
			respondError(w, err)
			return
		}
		s.invalidateStats()
	}

	respondJSON(w, http.StatusOK, struct {
		Accepted int                 `json:"accepted"`
		Rejected []csvio.RejectedRow `json:"rejected"`
		Entries  []core.Entry        `json:"entries"`
	}{len(persisted), result.Rejected, persisted})
}

// handleExport streams the selected entries as a downloadable file in the
// import format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.EntriesForSelection()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="entries.csv"`)
	if err := csvio.Export(w, entries); err != nil {
		// Headers are gone; all we can do is log through the middleware.
		return
	}
}
