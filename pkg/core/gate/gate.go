package gate

import (
	"fmt"
	"os"
	"path/filepath"

	"sales_deepdive/pkg/core/report"
)

// =============================================================================
// OUTPUT QUALITY GATE
// =============================================================================
// A report run only counts if its directory holds all three artifacts and
// none of them is empty. The gate re-checks this after the fact so a broken
// renderer cannot silently ship a partial report.

// RequiredArtifacts lists the files every report directory must contain.
var RequiredArtifacts = []string{
	report.SummaryFile,
	report.WorkbookFile,
	report.ChartFile,
}

// ReportDirs lists the per-analysis directories the pipeline produces.
var ReportDirs = []string{
	"01_cohort_retention",
	"02_pareto_abc",
	"03_adhoc_investigation",
	"04_target_gaps",
}

// Status is the gate verdict for one report directory.
type Status struct {
	Report  string   `json:"report"`
	Passed  bool     `json:"passed"`
	Missing []string `json:"missing,omitempty"`
	Empty   []string `json:"empty,omitempty"`
}

// Validate checks every report directory under outDir. The returned error
// is non-nil only for I/O problems; a failed gate is expressed through the
// statuses so the caller can print all failures before exiting non-zero.
func Validate(outDir string) ([]Status, error) {
	if _, err := os.Stat(outDir); err != nil {
		return nil, fmt.Errorf("output directory %s not accessible: %w", outDir, err)
	}

	statuses := make([]Status, 0, len(ReportDirs))
	for _, dir := range ReportDirs {
		st := Status{Report: dir, Passed: true}
		for _, name := range RequiredArtifacts {
			path := filepath.Join(outDir, dir, name)
			info, err := os.Stat(path)
			switch {
			case err != nil:
				st.Passed = false
				st.Missing = append(st.Missing, name)
			case info.Size() == 0:
				st.Passed = false
				st.Empty = append(st.Empty, name)
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// AllPassed reports whether every status passed.
func AllPassed(statuses []Status) bool {
	for _, st := range statuses {
		if !st.Passed {
			return false
		}
	}
	return true
}
