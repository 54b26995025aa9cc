package core

import (
	"fmt"
	"strconv"
	"time"
)

// Row is an ordered sequence of cells.
type Row []string

// Cell returns the cell at index i, or "" when the row is too short.
// Ragged rows are tolerated; a missing cell reads as empty.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Source is the optional provenance of an extracted table.
// Zero values mean unknown.
type Source struct {
	Page  int `json:"page,omitempty"`
	Index int `json:"table_index,omitempty"`
}

// Table is an ordered sequence of rows. When HasHeader is set, row 0 is the
// header and is never filtered, searched away, or reordered by sort.
type Table struct {
	Rows      []Row  `json:"data"`
	HasHeader bool   `json:"hasHeader"`
	Source    Source `json:"source"`
}

// NewTable builds a table from raw string rows with row 0 as header.
func NewTable(rows [][]string) Table {
	t := Table{Rows: make([]Row, len(rows)), HasHeader: true}
	for i, r := range rows {
		t.Rows[i] = Row(r)
	}
	return t
}

// Header returns the header row, or nil when the table has none.
func (t Table) Header() Row {
	if !t.HasHeader || len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns the rows after the header.
func (t Table) DataRows() []Row {
	if t.HasHeader && len(t.Rows) > 0 {
		return t.Rows[1:]
	}
	return t.Rows
}

// DataRowCount is the number of rows excluding the header. A header-only
// table reports 0.
func (t Table) DataRowCount() int {
	return len(t.DataRows())
}

// Width returns the header width, or the widest row when there is no header.
func (t Table) Width() int {
	if h := t.Header(); h != nil {
		return len(h)
	}
	w := 0
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Grid returns the rows as plain string slices, e.g. for CSV export.
func (t Table) Grid() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = []string(r)
	}
	return out
}

// withDataRows returns a copy of t whose data rows are replaced.
// The header row is shared; rows are never mutated in place.
func (t Table) withDataRows(rows []Row) Table {
	out := Table{HasHeader: t.HasHeader, Source: t.Source}
	if h := t.Header(); h != nil {
		out.Rows = make([]Row, 0, len(rows)+1)
		out.Rows = append(out.Rows, h)
		out.Rows = append(out.Rows, rows...)
		return out
	}
	out.Rows = append(make([]Row, 0, len(rows)), rows...)
	return out
}

// CellString coerces a loosely typed cell to text. nil becomes "".
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// RowFromValues coerces a slice of loosely typed values into a Row.
func RowFromValues(values []any) Row {
	r := make(Row, len(values))
	for i, v := range values {
		r[i] = CellString(v)
	}
	return r
}
