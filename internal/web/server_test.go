package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"spotcheck/internal/result"
	"spotcheck/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(":0", store, slog.Default()), store
}

func seedRun(t *testing.T, store *storage.Store, id string, pass bool) {
	t.Helper()
	rec := storage.RunRecord{
		ID:             id,
		ImagePath:      "spot.png",
		CentroidX:      10,
		CentroidY:      7,
		StdDev:         12.5,
		Variance:       156.25,
		PositionPass:   pass,
		StdPass:        pass,
		DispersionPass: pass,
	}
	record := &result.Record{}
	record.Position.Actual = [2]int{10, 7}
	record.Tests = result.Verdicts{Position: pass, Std: pass, Dispersion: pass}
	if err := store.RecordRun(rec, record); err != nil {
		t.Fatalf("seed run %s: %v", id, err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestListRuns(t *testing.T) {
	srv, store := newTestServer(t)
	seedRun(t, store, "run-1", true)
	seedRun(t, store, "run-2", false)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/runs", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var runs []RunSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestListRunsBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/runs?limit=zero", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRunDetail(t *testing.T) {
	srv, store := newTestServer(t)
	seedRun(t, store, "run-9", true)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/runs/run-9", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var detail RunDetail
	if err := json.Unmarshal(rr.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if detail.ID != "run-9" || detail.Record == nil {
		t.Fatalf("unexpected detail payload: %+v", detail)
	}
	if detail.Record.Position.Actual != [2]int{10, 7} {
		t.Fatalf("record not preserved: %+v", detail.Record)
	}
}

func TestRunDetailNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/runs/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
