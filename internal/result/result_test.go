package result

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spotcheck/internal/analysis"
	"spotcheck/internal/expect"
)

func sampleRecord() *Record {
	exp := &expect.Config{
		Position:   expect.Position{X: 10, Y: 10},
		Std:        expect.Scalar{Value: 12.0},
		Dispersion: expect.Scalar{Value: 144.0},
	}
	stats := &analysis.Statistics{
		CentroidX: 10,
		CentroidY: 10,
		StdDev:    12.0,
		Variance:  144.0,
	}
	rec := Build(exp, stats)
	rec.Tests = Verdicts{Position: true, Std: true, Dispersion: true}
	return rec
}

func TestJSONRoundTrip(t *testing.T) {
	rec := sampleRecord()

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != *rec {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, *rec)
	}
}

func TestWriteJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Output.json")

	out := WriteJSON(path, sampleRecord())
	if !out.OK {
		t.Fatalf("write failed: %s", out.Message)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "\n    \"position\"") {
		t.Fatalf("output not indented: %q", text)
	}
	for _, key := range []string{"position_test", "std_test", "dispersion_test"} {
		if !strings.Contains(text, key) {
			t.Fatalf("output missing %s: %q", key, text)
		}
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("written file not parseable: %v", err)
	}
	if !back.AllPassed() {
		t.Fatalf("verdicts lost in serialization: %+v", back.Tests)
	}
}

func TestWriteJSONFailureIsOutcome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "Output.json")

	out := WriteJSON(path, sampleRecord())
	if out.OK {
		t.Fatal("expected failing outcome for unwritable path")
	}
	if out.Sink != SinkJSON || out.Message == "" {
		t.Fatalf("outcome not descriptive: %+v", out)
	}
}

func TestAllPassed(t *testing.T) {
	rec := sampleRecord()
	if !rec.AllPassed() {
		t.Fatal("expected all verdicts true")
	}
	rec.Tests.Std = false
	if rec.AllPassed() {
		t.Fatal("expected failure when one verdict false")
	}
}
