package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"betledger/internal/core"
	"betledger/internal/metrics"
)

// handleStats serves one computed statistic over the current selection.
// Responses are memoized until the next mutation or TTL expiry.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	key := s.statsKey(kind, r)
	if cached, ok := s.statsCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "hit")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	entries := s.svc.EntriesForSelection()

	var payload any
	switch kind {
	case "dashboard":
		payload = metrics.ComputeDashboard(entries)
	case "bankroll":
		payload = metrics.BankrollHistory(entries)
	case "daily":
		payload = metrics.DailyPnL(entries)
	case "monthly":
		payload = metrics.MonthlyStats(entries)
	case "streaks":
		payload = metrics.ComputeStreaks(entries)
	case "modalities":
		payload = metrics.ByModality(entries)
	case "markets":
		payload = metrics.ByMarket(entries)
	case "recent":
		payload = metrics.RecentEntries(entries, recentLimit(r))
	default:
		respondError(w, &core.NotFoundError{Kind: "stat", ID: kind})
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		respondError(w, err)
		return
	}
	s.statsCache.Set(key, data)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "miss")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// statsKey folds the stat kind, the selection state and any shaping query
// parameters into the cache key.
func (s *Server) statsKey(kind string, r *http.Request) string {
	mode, ids := s.svc.SelectionState()
	parts := []string{kind, string(mode), strings.Join(ids, ",")}
	if kind == "recent" {
		parts = append(parts, strconv.Itoa(recentLimit(r)))
	}
	return strings.Join(parts, "|")
}

func recentLimit(r *http.Request) int {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}
