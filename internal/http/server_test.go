package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"betledger/internal/core"
	"betledger/internal/dates"
	"betledger/internal/ledger"
	"betledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := ledger.New(memory.New(), nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewServer(":0", svc, nil, DefaultOptions())
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func createAccount(t *testing.T, srv *Server, name, initial string) core.Account {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", map[string]any{
		"name":            name,
		"initial_balance": initial,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: status %d body %s", rec.Code, rec.Body)
	}
	return decodeBody[core.Account](t, rec)
}

func entryPayload(profit string) map[string]any {
	return map[string]any{
		"created_date": "2025-03-10",
		"legs": []map[string]any{{
			"event_date": "2025-03-10",
			"modality":   "Soccer",
			"event":      "A vs B",
			"market":     "1X2",
			"selection":  "A",
			"timing":     "PRE",
		}},
		"odd":    "2",
		"stake":  "10",
		"result": "WIN",
		"profit": profit,
	}
}

func TestAccountLifecycle(t *testing.T) {
	srv := newTestServer(t)

	account := createAccount(t, srv, "main", "100")
	if account.ID == "" || account.Name != "main" {
		t.Fatalf("created account = %+v", account)
	}
	if account.Balance.String() != "100" {
		t.Errorf("fresh balance = %s, want 100", account.Balance)
	}

	rec := doJSON(t, srv, http.MethodPut, "/api/accounts/"+account.ID, map[string]any{"name": "renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body)
	}
	if got := decodeBody[core.Account](t, rec); got.Name != "renamed" {
		t.Errorf("updated name = %q", got.Name)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+account.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+account.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", rec.Code)
	}
}

func TestCreateEntriesUpdatesBalance(t *testing.T) {
	srv := newTestServer(t)
	account := createAccount(t, srv, "main", "100")

	rec := doJSON(t, srv, http.MethodPost, "/api/entries", map[string]any{
		"account_id": account.ID,
		"entries":    []map[string]any{entryPayload("10"), entryPayload("-4")},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entries: status %d body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	resp := decodeBody[struct {
		TotalBalance decimal.Decimal `json:"total_balance"`
	}](t, rec)
	if resp.TotalBalance.String() != "106" {
		t.Errorf("total balance = %s, want 106", resp.TotalBalance)
	}
}

func TestCreateEntriesErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	createAccount(t, srv, "a", "0")
	createAccount(t, srv, "b", "0")

	// Ambiguous target in overview mode.
	rec := doJSON(t, srv, http.MethodPost, "/api/entries", map[string]any{
		"entries": []map[string]any{entryPayload("1")},
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("ambiguous target: status %d, want 409", rec.Code)
	}

	// Unknown explicit account.
	rec = doJSON(t, srv, http.MethodPost, "/api/entries", map[string]any{
		"account_id": "missing",
		"entries":    []map[string]any{entryPayload("1")},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown account: status %d, want 404", rec.Code)
	}

	// Invalid entry shape.
	bad := entryPayload("1")
	bad["odd"] = "0.5"
	account := createAccount(t, srv, "c", "0")
	rec = doJSON(t, srv, http.MethodPost, "/api/entries", map[string]any{
		"account_id": account.ID,
		"entries":    []map[string]any{bad},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid entry: status %d, want 422, body %s", rec.Code, rec.Body)
	}
}

func TestSelectionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	a := createAccount(t, srv, "a", "0")
	createAccount(t, srv, "b", "0")

	rec := doJSON(t, srv, http.MethodPut, "/api/selection", map[string]any{
		"action": "select", "account_id": a.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("select: status %d body %s", rec.Code, rec.Body)
	}
	sel := decodeBody[selectionResponse](t, rec)
	if sel.Mode != "specific" || len(sel.AccountIDs) != 1 || sel.AccountIDs[0] != a.ID {
		t.Errorf("selection = %+v", sel)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/selection", map[string]any{"action": "overview"})
	if sel := decodeBody[selectionResponse](t, rec); sel.Mode != "overview" {
		t.Errorf("mode = %s after overview", sel.Mode)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/selection", map[string]any{"action": "purge"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad action: status %d, want 422", rec.Code)
	}
}

func TestStatsCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)
	account := createAccount(t, srv, "main", "0")

	rec := doJSON(t, srv, http.MethodGet, "/api/stats/dashboard", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "miss" {
		t.Fatalf("first stats: status %d cache %q", rec.Code, rec.Header().Get("X-Cache"))
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/stats/dashboard", nil)
	if rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("second stats should hit the cache, got %q", rec.Header().Get("X-Cache"))
	}

	// A mutation purges the memoized stats.
	doJSON(t, srv, http.MethodPost, "/api/entries", map[string]any{
		"account_id": account.ID,
		"entries":    []map[string]any{entryPayload("5")},
	})
	rec = doJSON(t, srv, http.MethodGet, "/api/stats/dashboard", nil)
	if rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("stats after mutation should miss, got %q", rec.Header().Get("X-Cache"))
	}
	dash := decodeBody[map[string]any](t, rec)
	if dash["entries"] != float64(1) {
		t.Errorf("dashboard entries = %v, want 1", dash["entries"])
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/stats/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown stat: status %d, want 404", rec.Code)
	}
}

func TestImportAndExportRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	account := createAccount(t, srv, "main", "0")

	csvBody := strings.Join([]string{
		"created_date,modality,event_date,event,market,selection,odd,stake,result,profit,timing,site",
		"2025-03-10,Soccer,2025-03-10,A vs B,1X2,A,2,10,GREEN,10,PRE,bookie",
		"31/13/2025,Soccer,2025-03-11,C vs D,1X2,C,2,10,RED,-10,PRE,bookie",
	}, "\n")

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/entries/import?account_id=%s", account.ID),
		strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import: status %d body %s", rec.Code, rec.Body)
	}
	report := decodeBody[struct {
		Accepted int `json:"accepted"`
		Rejected []struct {
			Row    int    `json:"row"`
			Reason string `json:"reason"`
		} `json:"rejected"`
	}](t, rec)
	if report.Accepted != 1 || len(report.Rejected) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Rejected[0].Row != 2 {
		t.Errorf("rejected row = %d, want 2", report.Rejected[0].Row)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/entries/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("export content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "A vs B") {
		t.Error("export missing imported entry")
	}
}

func TestEntryUpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	account := createAccount(t, srv, "main", "50")

	rec := doJSON(t, srv, http.MethodPost, "/api/entries", map[string]any{
		"account_id": account.ID,
		"entries":    []map[string]any{entryPayload("10")},
	})
	created := decodeBody[struct {
		Entries []core.Entry `json:"entries"`
	}](t, rec)
	id := created.Entries[0].ID

	day := dates.New(2025, time.March, 10)
	updated := core.Entry{
		CreatedDate: day,
		Legs: []core.Leg{{
			EventDate: day, Modality: "Soccer", Market: "1X2", Timing: core.TimingPre,
		}},
		Odd:    decimal.RequireFromString("2"),
		Stake:  decimal.RequireFromString("10"),
		Result: core.ResultLoss,
		Profit: decimal.RequireFromString("-10"),
	}
	rec = doJSON(t, srv, http.MethodPut, "/api/entries/"+id, updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	resp := decodeBody[struct {
		TotalBalance decimal.Decimal `json:"total_balance"`
	}](t, rec)
	if resp.TotalBalance.String() != "40" {
		t.Errorf("balance after update = %s, want 40", resp.TotalBalance)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/entries/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	resp = decodeBody[struct {
		TotalBalance decimal.Decimal `json:"total_balance"`
	}](t, rec)
	if resp.TotalBalance.String() != "50" {
		t.Errorf("balance after delete = %s, want 50", resp.TotalBalance)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
}
