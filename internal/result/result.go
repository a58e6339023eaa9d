// Package result assembles the per-run record combining expected and actual
// metrics with comparison verdicts, and serializes it to JSON.
package result

import (
	"encoding/json"
	"fmt"
	"os"

	"spotcheck/internal/analysis"
	"spotcheck/internal/expect"
)

// PositionMetric pairs the expected centroid with the computed one.
// Actual is [x, y].
type PositionMetric struct {
	Expected expect.Position `json:"expected"`
	Actual   [2]int          `json:"actual"`
}

// ScalarMetric pairs an expected scalar group with the computed value.
type ScalarMetric struct {
	Expected expect.Scalar `json:"expected"`
	Actual   float64       `json:"actual"`
}

// Verdicts holds the boolean outcome of each comparison.
type Verdicts struct {
	Position   bool `json:"position_test"`
	Std        bool `json:"std_test"`
	Dispersion bool `json:"dispersion_test"`
}

// Record is the unit persisted to JSON, the run archive, and the time-series
// database.
type Record struct {
	Position   PositionMetric `json:"position"`
	Std        ScalarMetric   `json:"std"`
	Dispersion ScalarMetric   `json:"dispersion"`
	Tests      Verdicts       `json:"tests"`
}

// Build merges expectations and computed statistics into a Record. Verdicts
// are zero until the comparator fills them in.
func Build(exp *expect.Config, stats *analysis.Statistics) *Record {
	return &Record{
		Position: PositionMetric{
			Expected: exp.Position,
			Actual:   [2]int{stats.CentroidX, stats.CentroidY},
		},
		Std: ScalarMetric{
			Expected: exp.Std,
			Actual:   stats.StdDev,
		},
		Dispersion: ScalarMetric{
			Expected: exp.Dispersion,
			Actual:   stats.Variance,
		},
	}
}

// AllPassed reports whether every verdict is true.
func (r *Record) AllPassed() bool {
	return r.Tests.Position && r.Tests.Std && r.Tests.Dispersion
}

// WriteJSON persists the record pretty-printed to path. Failures are reported
// as an Outcome rather than an error so the run can continue.
func WriteJSON(path string, rec *Record) Outcome {
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return Failure(SinkJSON, fmt.Errorf("failed to encode results: %w", err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Failure(SinkJSON, fmt.Errorf("failed to save results to %s: %w", path, err))
	}
	return Success(SinkJSON)
}
