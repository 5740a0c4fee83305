// Package export writes the visible expense list to a spreadsheet.
package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"expense-tracker-tui/internal/render"
)

const sheetName = "Expenses"

var header = []string{"Date", "Name", "Category", "Amount"}

// WriteXLSX saves rows followed by a totals block to path. Amounts are
// written as numbers so the sheet can sum them.
func WriteXLSX(path string, rows []render.Row, s render.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range header {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		row := i + 2
		values := []any{r.Date, r.Name, r.Category, numeric(r.Amount)}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}

	totalsRow := len(rows) + 3
	totals := [][2]string{
		{"Income", s.Income},
		{"Total expenses", s.Expenses},
		{"Balance", s.Balance},
	}
	for i, t := range totals {
		if err := setCell(f, 3, totalsRow+i, t[0]); err != nil {
			return err
		}
		if err := setCell(f, 4, totalsRow+i, numeric(t[1])); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

// numeric keeps the two-decimal display value but stores a number when
// it parses as one.
func numeric(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
