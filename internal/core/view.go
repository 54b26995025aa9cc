package core

// view.go derives what the user sees from a table: filter, then sort.
//
// Everything here is a pure function of its arguments. Input tables and
// rows are never mutated; derived tables share row slices with their source
// but never write through them.

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection is one state of the three-state sort cycle.
type SortDirection string

const (
	SortUnset SortDirection = ""
	SortAsc   SortDirection = "asc"
	SortDesc  SortDirection = "desc"
)

// SortSpec selects a sort column and direction. Column -1 means unsorted.
type SortSpec struct {
	Column    int           `json:"columnIndex"`
	Direction SortDirection `json:"direction"`
}

// Unsorted is the SortSpec with no active sort.
var Unsorted = SortSpec{Column: -1, Direction: SortUnset}

// Active reports whether s actually sorts anything.
func (s SortSpec) Active() bool {
	return s.Column >= 0 && (s.Direction == SortAsc || s.Direction == SortDesc)
}

// Next advances the cycle for a click on column. Selecting the sorted
// column steps unset -> asc -> desc -> unset; selecting any other column
// starts at asc.
func (s SortSpec) Next(column int) SortSpec {
	if s.Column != column {
		return SortSpec{Column: column, Direction: SortAsc}
	}
	switch s.Direction {
	case SortUnset:
		return SortSpec{Column: column, Direction: SortAsc}
	case SortAsc:
		return SortSpec{Column: column, Direction: SortDesc}
	default:
		return Unsorted
	}
}

// ViewOptions carries the locale-dependent knobs of the view engine.
type ViewOptions struct {
	// DateOrder reads ambiguous NN/NN/YYYY dates. Default MonthFirst.
	DateOrder DateOrder
	// Locale drives string collation for sorting. Default language.Und.
	Locale language.Tag
}

// DefaultViewOptions uses month-first dates and root collation.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{DateOrder: MonthFirst, Locale: language.Und}
}

// NewViewOptions builds options from configuration strings: a date order
// ("month-first" or "day-first") and a BCP-47 locale tag.
func NewViewOptions(dateOrder, locale string) (ViewOptions, error) {
	order, ok := ParseDateOrder(dateOrder)
	if !ok {
		return ViewOptions{}, fmt.Errorf("invalid view: unknown date order %q", dateOrder)
	}
	tag := language.Und
	if strings.TrimSpace(locale) != "" {
		var err error
		if tag, err = language.Parse(locale); err != nil {
			return ViewOptions{}, fmt.Errorf("invalid view: locale %q: %w", locale, err)
		}
	}
	return ViewOptions{DateOrder: order, Locale: tag}, nil
}

// SearchTables returns the tables in which any cell contains term,
// ignoring case. A blank term matches every table. Search selects whole
// tables; it never prunes rows.
func SearchTables(tables []Table, term string) []Table {
	if strings.TrimSpace(term) == "" {
		return tables
	}
	needle := strings.ToLower(term)

	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		if tableContains(t, needle) {
			out = append(out, t)
		}
	}
	return out
}

func tableContains(t Table, lowerNeedle string) bool {
	for _, r := range t.Rows {
		for _, c := range r {
			if strings.Contains(strings.ToLower(c), lowerNeedle) {
				return true
			}
		}
	}
	return false
}

// ApplyFilters keeps the data rows that satisfy every enabled filter.
// The header, when present, is always kept as row 0.
func (o ViewOptions) ApplyFilters(t Table, filters []Filter) Table {
	if ActiveFilterCount(filters) == 0 {
		return t
	}

	data := t.DataRows()
	kept := make([]Row, 0, len(data))
	for _, r := range data {
		if o.DateOrder.EvaluateRow(r, filters) {
			kept = append(kept, r)
		}
	}
	return t.withDataRows(kept)
}

// SortRows orders the data rows by the text at spec.Column using
// case-insensitive, locale-aware collation. The sort is stable, so rows
// that compare equal keep their current order. The header never moves.
func (o ViewOptions) SortRows(t Table, spec SortSpec) Table {
	if !spec.Active() {
		return t
	}

	rows := append([]Row(nil), t.DataRows()...)
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = strings.ToLower(r.Cell(spec.Column))
	}

	// collate.Collator is not safe for concurrent use; build one per call.
	col := collate.New(o.Locale, collate.IgnoreCase)
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		c := col.CompareString(keys[idx[a]], keys[idx[b]])
		if spec.Direction == SortDesc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]Row, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	return t.withDataRows(sorted)
}

// DeriveView filters then sorts t.
func (o ViewOptions) DeriveView(t Table, filters []Filter, spec SortSpec) Table {
	return o.SortRows(o.ApplyFilters(t, filters), spec)
}

// ApplyFilters filters t with default options.
func ApplyFilters(t Table, filters []Filter) Table {
	return DefaultViewOptions().ApplyFilters(t, filters)
}

// SortRows sorts t with default options.
func SortRows(t Table, spec SortSpec) Table {
	return DefaultViewOptions().SortRows(t, spec)
}

// DeriveView filters and sorts t with default options.
func DeriveView(t Table, filters []Filter, spec SortSpec) Table {
	return DefaultViewOptions().DeriveView(t, filters, spec)
}
