package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet's rows in workbook order.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadWorkbook returns every worksheet of an .xlsx upload, in order.
// Trailing empty rows and columns are already trimmed by excelize.
func ReadWorkbook(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("invalid workbook: sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// WorkbookTables turns each non-empty sheet into a table with a header row.
// Source.Index records the sheet's one-based position in the workbook.
func WorkbookTables(sheets []Sheet) []core.Table {
	var tables []core.Table
	for i, s := range sheets {
		if blankRows(s.Rows) {
			continue
		}
		t := core.NewTable(s.Rows)
		t.Source = core.Source{Index: i + 1}
		tables = append(tables, t)
	}
	return tables
}

func blankRows(rows [][]string) bool {
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
	}
	return true
}
