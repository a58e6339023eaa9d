// Package compare applies absolute-tolerance checks between expected and
// actual spot metrics.
package compare

import (
	"fmt"
	"io"
	"math"
	"os"
)

// DefaultTolerance is the absolute difference allowed for every metric.
const DefaultTolerance = 0.01

// Comparator checks metrics against a fixed absolute tolerance and emits one
// human-readable pass/fail line per check.
type Comparator struct {
	tolerance float64
	out       io.Writer
}

// New returns a Comparator writing verdict lines to out. A zero or negative
// tolerance falls back to DefaultTolerance; a nil out falls back to stdout.
func New(tolerance float64, out io.Writer) *Comparator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if out == nil {
		out = os.Stdout
	}
	return &Comparator{tolerance: tolerance, out: out}
}

// Within reports whether expected and actual differ by at most the tolerance.
// NaN never compares equal.
func (c *Comparator) Within(expected, actual float64) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return false
	}
	return math.Abs(expected-actual) <= c.tolerance
}

// Position checks the centroid. Both components must independently satisfy
// the tolerance.
func (c *Comparator) Position(expectedX, expectedY float64, actualX, actualY int) bool {
	ok := c.Within(expectedX, float64(actualX)) && c.Within(expectedY, float64(actualY))
	c.report("Position", ok)
	return ok
}

// Std checks the standard deviation.
func (c *Comparator) Std(expected, actual float64) bool {
	ok := c.Within(expected, actual)
	c.report("Standard deviation", ok)
	return ok
}

// Dispersion checks the variance.
func (c *Comparator) Dispersion(expected, actual float64) bool {
	ok := c.Within(expected, actual)
	c.report("Dispersion", ok)
	return ok
}

func (c *Comparator) report(name string, ok bool) {
	if ok {
		fmt.Fprintf(c.out, "%s test passed successfully.\n", name)
	} else {
		fmt.Fprintf(c.out, "%s test failed.\n", name)
	}
}
