// Package web exposes a read-only HTTP API over the run archive.
package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"spotcheck/internal/result"
	"spotcheck/internal/storage"
)

const defaultRunLimit = 20

// Server serves recent analysis runs from the archive.
type Server struct {
	addr   string
	store  *storage.Store
	log    *slog.Logger
	router *mux.Router
}

// RunSummary is the list-view payload for one run.
type RunSummary struct {
	ID             string    `json:"id"`
	ImagePath      string    `json:"image_path"`
	ExpectPath     string    `json:"expect_path,omitempty"`
	CentroidX      int       `json:"centroid_x"`
	CentroidY      int       `json:"centroid_y"`
	StdDev         float64   `json:"std_dev"`
	Variance       float64   `json:"variance"`
	PositionPass   bool      `json:"position_pass"`
	StdPass        bool      `json:"std_pass"`
	DispersionPass bool      `json:"dispersion_pass"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunDetail is the single-run payload including the full result record.
type RunDetail struct {
	RunSummary
	Record *result.Record `json:"record"`
}

// New builds a server over store listening on addr.
func New(addr string, store *storage.Store, log *slog.Logger) *Server {
	s := &Server{addr: addr, store: store, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/runs", s.handleRuns).Methods("GET")
	r.HandleFunc("/api/runs/{id}", s.handleRun).Methods("GET")
	s.router = r

	return s
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler { return s.router }

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("results API listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	recs, err := s.store.RecentRuns(limit)
	if err != nil {
		s.log.Error("listing runs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	out := make([]RunSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summarize(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, record, err := s.store.RunByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.log.Error("fetching run failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}

	writeJSON(w, http.StatusOK, RunDetail{RunSummary: summarize(*rec), Record: record})
}

func summarize(rec storage.RunRecord) RunSummary {
	return RunSummary{
		ID:             rec.ID,
		ImagePath:      rec.ImagePath,
		ExpectPath:     rec.ExpectPath,
		CentroidX:      rec.CentroidX,
		CentroidY:      rec.CentroidY,
		StdDev:         rec.StdDev,
		Variance:       rec.Variance,
		PositionPass:   rec.PositionPass,
		StdPass:        rec.StdPass,
		DispersionPass: rec.DispersionPass,
		CreatedAt:      rec.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
