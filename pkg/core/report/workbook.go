package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook lays the three tables out as summary / detail / parameters
// sheets. Sheet names are capped at 31 characters (the xlsx hard limit),
// header rows are frozen and columns widened for readability.
func writeWorkbook(path string, a *Artifact) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		table Table
	}{
		{"summary", a.Summary},
		{"detail", a.Detail},
		{"parameters", a.Parameters},
	}

	for i, s := range sheets {
		name := sheetName(s.name)
		if i == 0 {
			f.SetSheetName("Sheet1", name)
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", name, err)
			}
		}
		if err := writeTable(f, name, s.table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t Table) error {
	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, colName, colName, 18); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	// Freeze the header row.
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
