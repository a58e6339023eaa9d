package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"spotcheck/internal/analysis"
	"spotcheck/internal/compare"
	"spotcheck/internal/config"
	"spotcheck/internal/expect"
	"spotcheck/internal/logging"
	"spotcheck/internal/metrics"
	"spotcheck/internal/result"
	"spotcheck/internal/storage"
	"spotcheck/internal/web"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type metricsSink interface {
	SendRunMetrics(rec *result.Record) error
	Close() error
}

type metricsFactory func(cfg config.Influx) (metricsSink, error)

type serveFunc func(ctx context.Context, addr string, store *storage.Store, log *slog.Logger) error

func defaultServe(ctx context.Context, addr string, store *storage.Store, log *slog.Logger) error {
	return web.New(addr, store, log).Start(ctx)
}

// Root wires CLI commands to the analysis run and its sinks.
type Root struct {
	cfg        *config.Config
	log        *slog.Logger
	store      *storage.Store
	out        io.Writer
	newMetrics metricsFactory
	serveFn    serveFunc
	newRunID   func() string
}

// NewRoot constructs the CLI root with production wiring.
func NewRoot(cfg *config.Config, logger *slog.Logger, store *storage.Store) *Root {
	return &Root{
		cfg:   cfg,
		log:   logger,
		store: store,
		out:   os.Stdout,
		newMetrics: func(c config.Influx) (metricsSink, error) {
			return metrics.New(c)
		},
		serveFn:  defaultServe,
		newRunID: uuid.NewString,
	}
}

// AnalyzeOptions selects the inputs and outputs of one analysis run.
type AnalyzeOptions struct {
	ImagePath     string
	ExpectPath    string
	JSONOutput    string
	ProjectionDir string
	SkipDB        bool
}

// RunReport summarizes one completed run for the caller.
type RunReport struct {
	RunID    string
	Record   *result.Record
	Stats    *analysis.Statistics
	Outcomes []result.Outcome
}

// Analyze performs the linear pass: load expectations, load image, compute
// statistics, compare, then persist through each sink best-effort.
//
// Expectation/image/compute failures are fatal and returned; sink failures are
// collected in the report and never abort the run.
func (r *Root) Analyze(ctx context.Context, opts AnalyzeOptions) (*RunReport, error) {
	runID := r.newRunID()
	start := time.Now()
	logging.LogRunStart(r.log, runID, opts.ImagePath, opts.ExpectPath)

	exp, err := expect.Load(opts.ExpectPath)
	if err != nil {
		logging.LogRunError(r.log, runID, time.Since(start), err)
		return nil, err
	}

	analyzer, err := analysis.Load(opts.ImagePath)
	if err != nil {
		logging.LogRunError(r.log, runID, time.Since(start), err)
		return nil, err
	}

	stats, err := analyzer.Process(opts.ProjectionDir)
	if err != nil {
		logging.LogRunError(r.log, runID, time.Since(start), err)
		return nil, err
	}

	rec := result.Build(exp, stats)
	cmp := compare.New(r.cfg.Compare.Tolerance, r.out)
	rec.Tests = result.Verdicts{
		Position:   cmp.Position(exp.Position.X, exp.Position.Y, stats.CentroidX, stats.CentroidY),
		Std:        cmp.Std(exp.Std.Value, stats.StdDev),
		Dispersion: cmp.Dispersion(exp.Dispersion.Value, stats.Variance),
	}

	report := &RunReport{RunID: runID, Record: rec, Stats: stats}
	report.Outcomes = append(report.Outcomes, r.writeJSON(runID, opts.JSONOutput, rec))
	report.Outcomes = append(report.Outcomes, r.archiveRun(runID, opts, stats, rec))
	report.Outcomes = append(report.Outcomes, r.sendMetrics(runID, opts.SkipDB, rec))

	logging.LogRunComplete(r.log, runID, time.Since(start), rec.AllPassed())
	return report, nil
}

func (r *Root) writeJSON(runID, path string, rec *result.Record) result.Outcome {
	out := result.WriteJSON(path, rec)
	r.logOutcome(runID, out)
	return out
}

func (r *Root) archiveRun(runID string, opts AnalyzeOptions, stats *analysis.Statistics, rec *result.Record) result.Outcome {
	err := r.store.RecordRun(storage.RunRecord{
		ID:             runID,
		ImagePath:      opts.ImagePath,
		ExpectPath:     opts.ExpectPath,
		CentroidX:      stats.CentroidX,
		CentroidY:      stats.CentroidY,
		StdDev:         stats.StdDev,
		Variance:       stats.Variance,
		PositionPass:   rec.Tests.Position,
		StdPass:        rec.Tests.Std,
		DispersionPass: rec.Tests.Dispersion,
	}, rec)

	var out result.Outcome
	if err != nil {
		out = result.Failure(result.SinkArchive, err)
	} else {
		out = result.Success(result.SinkArchive)
	}
	r.logOutcome(runID, out)
	return out
}

func (r *Root) sendMetrics(runID string, skip bool, rec *result.Record) result.Outcome {
	if skip || !r.cfg.Influx.Enabled {
		return result.Skipped(result.SinkInflux)
	}

	sink, err := r.newMetrics(r.cfg.Influx)
	if err != nil {
		out := result.Failure(result.SinkInflux, err)
		r.logOutcome(runID, out)
		return out
	}
	defer sink.Close()

	var out result.Outcome
	if err := sink.SendRunMetrics(rec); err != nil {
		out = result.Failure(result.SinkInflux, err)
	} else {
		out = result.Success(result.SinkInflux)
	}
	r.logOutcome(runID, out)
	return out
}

func (r *Root) logOutcome(runID string, out result.Outcome) {
	var err error
	if !out.OK {
		err = fmt.Errorf("%s", out.Message)
	}
	logging.LogSinkOutcome(r.log, runID, out.Sink, err)
}

// printReport writes the run summary lines for the analyze command.
func (r *Root) printReport(report *RunReport) {
	stats := report.Stats
	fmt.Fprintf(r.out, "Centroid: (%d, %d)\n", stats.CentroidX, stats.CentroidY)
	fmt.Fprintf(r.out, "Std dev: %.4f  Variance: %.4f\n", stats.StdDev, stats.Variance)

	for _, out := range report.Outcomes {
		if !out.OK {
			fmt.Fprintf(r.out, "Error writing to %s sink: %s\n", out.Sink, out.Message)
		}
	}

	if report.Record.AllPassed() {
		fmt.Fprintf(r.out, "Run %s: all tests passed.\n", report.RunID)
	} else {
		fmt.Fprintf(r.out, "Run %s: some tests failed.\n", report.RunID)
	}
}
