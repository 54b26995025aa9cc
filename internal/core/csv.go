package core

// csv.go serializes a grid of cells as comma-separated text.
//
// The quoting rule is fixed: a cell is wrapped in double quotes, with
// embedded quotes doubled, if and only if it contains a comma, a double
// quote, or a line break. Rows are joined by "\n" with no trailing newline.

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// DefaultExportBase is the filename base used when none is given.
const DefaultExportBase = "table"

// csvTimestampLayout is an ISO-8601 UTC time with ":" and "." replaced and
// sub-second precision dropped, so names sort by creation time.
const csvTimestampLayout = "2006-01-02T15-04-05"

// EscapeCSVCell returns the cell as it appears in CSV output.
func EscapeCSVCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// ToCSV renders rows as CSV text.
func ToCSV(rows [][]string) string {
	var b strings.Builder
	_ = WriteCSV(&b, rows)
	return b.String()
}

// WriteCSV streams rows as CSV text to w.
func WriteCSV(w io.Writer, rows [][]string) error {
	sw, ok := w.(io.StringWriter)
	if !ok {
		sw = stringWriter{w}
	}

	for i, row := range rows {
		if i > 0 {
			if _, err := sw.WriteString("\n"); err != nil {
				return err
			}
		}
		for j, cell := range row {
			if j > 0 {
				if _, err := sw.WriteString(","); err != nil {
					return err
				}
			}
			if _, err := sw.WriteString(EscapeCSVCell(cell)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValuesToCSV renders loosely typed cells, coercing each with CellString.
func ValuesToCSV(rows [][]any) string {
	grid := make([][]string, len(rows))
	for i, r := range rows {
		grid[i] = []string(RowFromValues(r))
	}
	return ToCSV(grid)
}

type stringWriter struct{ w io.Writer }

func (s stringWriter) WriteString(str string) (int, error) {
	return io.WriteString(s.w, str)
}

// CSVFilename returns "{base}-{timestamp}.csv" for the given instant.
// An empty base uses DefaultExportBase.
func CSVFilename(base string, now time.Time) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultExportBase
	}
	return base + "-" + now.UTC().Format(csvTimestampLayout) + ".csv"
}

// ExportBaseName names an exported table after its source page, or after
// its one-based position in the browsed collection when the page is unknown.
func ExportBaseName(t Table, position int) string {
	n := t.Source.Page
	if n <= 0 {
		n = position + 1
	}
	return DefaultExportBase + "-" + strconv.Itoa(n)
}
