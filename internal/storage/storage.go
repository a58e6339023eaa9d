package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"spotcheck/internal/result"
)

// Store wraps SQLite-backed persistence for analysis runs.
type Store struct {
	DB *sql.DB // Export for direct database access
}

// New opens (or creates) the database at path and ensures schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
            id TEXT PRIMARY KEY,
            image_path TEXT NOT NULL,
            expect_path TEXT,
            centroid_x INTEGER,
            centroid_y INTEGER,
            std_dev REAL,
            variance REAL,
            position_pass BOOLEAN,
            std_pass BOOLEAN,
            dispersion_pass BOOLEAN,
            record_json TEXT,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// RunRecord captures one persisted analysis run.
type RunRecord struct {
	ID             string
	ImagePath      string
	ExpectPath     string
	CentroidX      int
	CentroidY      int
	StdDev         float64
	Variance       float64
	PositionPass   bool
	StdPass        bool
	DispersionPass bool
	CreatedAt      time.Time
}

// RecordRun inserts one completed run together with its serialized record.
func (s *Store) RecordRun(rec RunRecord, record *result.Record) error {
	if s == nil {
		return nil
	}
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.DB.Exec(`INSERT OR REPLACE INTO analysis_runs
        (id, image_path, expect_path, centroid_x, centroid_y, std_dev, variance, position_pass, std_pass, dispersion_pass, record_json)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.ID, rec.ImagePath, rec.ExpectPath, rec.CentroidX, rec.CentroidY,
		rec.StdDev, rec.Variance, rec.PositionPass, rec.StdPass, rec.DispersionPass,
		string(recordJSON))
	return err
}

// RecentRuns returns the latest runs up to limit.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if s == nil {
		return nil, errors.New("store not initialized")
	}
	rows, err := s.DB.Query(`SELECT id, image_path, expect_path, centroid_x, centroid_y, std_dev, variance, position_pass, std_pass, dispersion_pass, created_at
        FROM analysis_runs ORDER BY created_at DESC, id LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// RunByID fetches one run and its stored record.
func (s *Store) RunByID(id string) (*RunRecord, *result.Record, error) {
	if s == nil {
		return nil, nil, errors.New("store not initialized")
	}
	row := s.DB.QueryRow(`SELECT id, image_path, expect_path, centroid_x, centroid_y, std_dev, variance, position_pass, std_pass, dispersion_pass, created_at, record_json
        FROM analysis_runs WHERE id=?;`, id)

	var rec RunRecord
	var expectPath sql.NullString
	var recordJSON string
	err := row.Scan(&rec.ID, &rec.ImagePath, &expectPath, &rec.CentroidX, &rec.CentroidY,
		&rec.StdDev, &rec.Variance, &rec.PositionPass, &rec.StdPass, &rec.DispersionPass,
		&rec.CreatedAt, &recordJSON)
	if err != nil {
		return nil, nil, err
	}
	if expectPath.Valid {
		rec.ExpectPath = expectPath.String
	}

	var record result.Record
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, &record, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var rec RunRecord
	var expectPath sql.NullString
	err := rows.Scan(&rec.ID, &rec.ImagePath, &expectPath, &rec.CentroidX, &rec.CentroidY,
		&rec.StdDev, &rec.Variance, &rec.PositionPass, &rec.StdPass, &rec.DispersionPass,
		&rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if expectPath.Valid {
		rec.ExpectPath = expectPath.String
	}
	return rec, nil
}
