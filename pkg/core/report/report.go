package report

import (
	"fmt"
	"os"
	"path/filepath"

	"sales_deepdive/pkg/core/utils"
)

// =============================================================================
// REPORT ARTIFACTS
// =============================================================================
// Every analysis produces the same three files inside its own directory:
//
//	01_executive_summary.txt   narrative markdown summary
//	02_result_tables.xlsx      summary / detail / parameters sheets
//	03_main_chart.png          one headline chart
//
// The quality gate downstream checks exactly these names.

const (
	SummaryFile  = "01_executive_summary.txt"
	WorkbookFile = "02_result_tables.xlsx"
	ChartFile    = "03_main_chart.png"
)

// Table is a render-ready grid: the engines hand these to the renderer so
// the spreadsheet and text layers never reach back into engine types.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Artifact is one report ready for rendering.
type Artifact struct {
	Name        string   `json:"name"`  // output directory name
	Title       string   `json:"title"` // human heading
	SummaryText string   `json:"summary_text"`
	Summary     Table    `json:"summary"`
	Detail      Table    `json:"detail"`
	Parameters  Table    `json:"parameters"`
	Warnings    []string `json:"warnings,omitempty"`

	// RenderChart writes the headline PNG; set by the builder.
	RenderChart func(path string) error `json:"-"`
}

// Write renders all three artifacts into outDir/<artifact name>/.
func Write(outDir string, a *Artifact) error {
	dir := filepath.Join(outDir, a.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if !utils.ValidateMarkdown(a.SummaryText) {
		return fmt.Errorf("consistency error: %s summary is not parseable markdown", a.Name)
	}
	if err := os.WriteFile(filepath.Join(dir, SummaryFile), []byte(a.SummaryText), 0o644); err != nil {
		return fmt.Errorf("failed to write summary for %s: %w", a.Name, err)
	}

	if err := writeWorkbook(filepath.Join(dir, WorkbookFile), a); err != nil {
		return fmt.Errorf("failed to write workbook for %s: %w", a.Name, err)
	}

	if a.RenderChart == nil {
		return fmt.Errorf("report %s has no chart renderer", a.Name)
	}
	if err := a.RenderChart(filepath.Join(dir, ChartFile)); err != nil {
		return fmt.Errorf("failed to render chart for %s: %w", a.Name, err)
	}
	return nil
}

// paramRows is a small helper for building the parameters/provenance table.
func paramRows(pairs ...[2]string) [][]string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return rows
}
