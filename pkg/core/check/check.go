package check

import (
	"fmt"
	"math"
)

// Result holds the status of a post-computation integrity check. Fatal
// violations are returned as errors by the engines themselves; Result
// carries the soft advisories that let a run continue.
type Result struct {
	OK       bool     `json:"ok"`
	Gap      float64  `json:"gap"`
	Warnings []string `json:"warnings,omitempty"`
}

// Warn appends a formatted advisory and clears OK.
func (r *Result) Warn(format string, args ...interface{}) {
	r.OK = false
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Passed creates a clean result.
func Passed() Result {
	return Result{OK: true}
}

// WithinRel reports whether got equals want within a relative tolerance,
// guarded at 1 so tiny magnitudes fall back to an absolute comparison.
func WithinRel(got, want, tol float64) bool {
	scale := math.Max(1, math.Abs(want))
	return math.Abs(got-want) <= tol*scale
}
