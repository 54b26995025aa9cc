package core

// filter.go defines the filter model and row evaluation.
//
// A Filter is a closed tagged union of three variants: TextFilter,
// DateFilter and AmountFilter. The unexported match method seals the
// interface to this package. Filters are values: every edit returns a new
// filter or a new slice, so a snapshot taken for a preset can never change
// underneath it.

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FilterKind discriminates the filter variants.
type FilterKind string

const (
	KindText   FilterKind = "text"
	KindDate   FilterKind = "date"
	KindAmount FilterKind = "amount"
)

// Filter is a typed predicate over one column.
type Filter interface {
	Kind() FilterKind
	Column() int
	IsEnabled() bool
	// WithEnabled returns a copy with the enabled flag set.
	WithEnabled(enabled bool) Filter
	// Validate checks the operator and column index.
	Validate() error

	match(cell string, order DateOrder) bool
}

// TextOperator compares lower-cased, trimmed strings.
type TextOperator string

const (
	TextContains    TextOperator = "contains"
	TextEquals      TextOperator = "equals"
	TextStartsWith  TextOperator = "startsWith"
	TextEndsWith    TextOperator = "endsWith"
	TextNotContains TextOperator = "notContains"
)

// DateOperator compares parsed calendar dates.
type DateOperator string

const (
	DateEquals  DateOperator = "equals"
	DateBefore  DateOperator = "before"
	DateAfter   DateOperator = "after"
	DateBetween DateOperator = "between"
)

// AmountOperator compares parsed amounts.
type AmountOperator string

const (
	AmountEquals      AmountOperator = "equals"
	AmountGreaterThan AmountOperator = "greaterThan"
	AmountLessThan    AmountOperator = "lessThan"
	AmountBetween     AmountOperator = "between"
)

// AmountTolerance is the absolute difference under which two amounts are equal.
const AmountTolerance = 0.01

// TextFilter matches a column by substring, prefix, suffix or equality.
type TextFilter struct {
	ColumnIndex int          `json:"columnIndex"`
	Operator    TextOperator `json:"operator"`
	Value       string       `json:"value"`
	Enabled     bool         `json:"enabled"`
}

// DateFilter matches a column by calendar date. Value and Value2 hold the
// operands as entered (typically YYYY-MM-DD); Value2 is used by between.
type DateFilter struct {
	ColumnIndex int          `json:"columnIndex"`
	Operator    DateOperator `json:"operator"`
	Value       string       `json:"value"`
	Value2      string       `json:"value2,omitempty"`
	Enabled     bool         `json:"enabled"`
}

// AmountFilter matches a column by numeric amount. Value2 is used by between.
type AmountFilter struct {
	ColumnIndex int            `json:"columnIndex"`
	Operator    AmountOperator `json:"operator"`
	Value       float64        `json:"value"`
	Value2      *float64       `json:"value2,omitempty"`
	Enabled     bool           `json:"enabled"`
}

func (f TextFilter) Kind() FilterKind   { return KindText }
func (f DateFilter) Kind() FilterKind   { return KindDate }
func (f AmountFilter) Kind() FilterKind { return KindAmount }

func (f TextFilter) Column() int   { return f.ColumnIndex }
func (f DateFilter) Column() int   { return f.ColumnIndex }
func (f AmountFilter) Column() int { return f.ColumnIndex }

func (f TextFilter) IsEnabled() bool   { return f.Enabled }
func (f DateFilter) IsEnabled() bool   { return f.Enabled }
func (f AmountFilter) IsEnabled() bool { return f.Enabled }

func (f TextFilter) WithEnabled(enabled bool) Filter {
	f.Enabled = enabled
	return f
}

func (f DateFilter) WithEnabled(enabled bool) Filter {
	f.Enabled = enabled
	return f
}

// WithEnabled returns a copy; Value2 is copied so the two never alias.
func (f AmountFilter) WithEnabled(enabled bool) Filter {
	f.Enabled = enabled
	if f.Value2 != nil {
		v := *f.Value2
		f.Value2 = &v
	}
	return f
}

func (f TextFilter) Validate() error {
	if f.ColumnIndex < 0 {
		return fmt.Errorf("invalid filter: column index %d", f.ColumnIndex)
	}
	switch f.Operator {
	case TextContains, TextEquals, TextStartsWith, TextEndsWith, TextNotContains:
		return nil
	}
	return fmt.Errorf("invalid filter: unknown text operator %q", f.Operator)
}

func (f DateFilter) Validate() error {
	if f.ColumnIndex < 0 {
		return fmt.Errorf("invalid filter: column index %d", f.ColumnIndex)
	}
	switch f.Operator {
	case DateEquals, DateBefore, DateAfter, DateBetween:
		return nil
	}
	return fmt.Errorf("invalid filter: unknown date operator %q", f.Operator)
}

func (f AmountFilter) Validate() error {
	if f.ColumnIndex < 0 {
		return fmt.Errorf("invalid filter: column index %d", f.ColumnIndex)
	}
	switch f.Operator {
	case AmountEquals, AmountGreaterThan, AmountLessThan, AmountBetween:
		return nil
	}
	return fmt.Errorf("invalid filter: unknown amount operator %q", f.Operator)
}

func (f TextFilter) match(cell string, _ DateOrder) bool {
	value := strings.ToLower(strings.TrimSpace(cell))
	want := strings.ToLower(strings.TrimSpace(f.Value))

	switch f.Operator {
	case TextContains:
		return strings.Contains(value, want)
	case TextEquals:
		return value == want
	case TextStartsWith:
		return strings.HasPrefix(value, want)
	case TextEndsWith:
		return strings.HasSuffix(value, want)
	case TextNotContains:
		return !strings.Contains(value, want)
	default:
		return false
	}
}

// match fails when either the cell or the filter's own operand does not
// parse: a garbled cell never matches and a misconfigured filter excludes
// every row.
func (f DateFilter) match(cell string, order DateOrder) bool {
	got, ok := order.Parse(cell)
	if !ok {
		return false
	}
	want, ok := order.Parse(f.Value)
	if !ok {
		return false
	}

	switch f.Operator {
	case DateEquals:
		return sameDay(got, want)
	case DateBefore:
		return got.Before(want)
	case DateAfter:
		return got.After(want)
	case DateBetween:
		want2, ok := order.Parse(f.Value2)
		if !ok {
			return false
		}
		lo, hi := orderedTimes(want, want2)
		return !got.Before(lo) && !got.After(hi)
	default:
		return false
	}
}

func (f AmountFilter) match(cell string, _ DateOrder) bool {
	got, ok := ParseAmount(cell)
	if !ok || math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		return false
	}

	switch f.Operator {
	case AmountEquals:
		return math.Abs(got-f.Value) < AmountTolerance
	case AmountGreaterThan:
		return got > f.Value
	case AmountLessThan:
		return got < f.Value
	case AmountBetween:
		if f.Value2 == nil || math.IsNaN(*f.Value2) {
			return false
		}
		lo, hi := math.Min(f.Value, *f.Value2), math.Max(f.Value, *f.Value2)
		return got >= lo && got <= hi
	default:
		return false
	}
}

func orderedTimes(a, b time.Time) (time.Time, time.Time) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// EvaluateRow reports whether row satisfies every enabled filter, reading
// ambiguous dates month-first. With no enabled filters every row passes.
func EvaluateRow(row Row, filters []Filter) bool {
	return MonthFirst.EvaluateRow(row, filters)
}

// EvaluateRow reports whether row satisfies every enabled filter (logical
// AND). Disabled filters are ignored. A cell beyond the end of a ragged
// row is treated as "".
func (o DateOrder) EvaluateRow(row Row, filters []Filter) bool {
	for _, f := range filters {
		if f == nil || !f.IsEnabled() {
			continue
		}
		if !f.match(row.Cell(f.Column()), o) {
			return false
		}
	}
	return true
}

// ActiveFilterCount returns how many filters are enabled.
func ActiveFilterCount(filters []Filter) int {
	n := 0
	for _, f := range filters {
		if f != nil && f.IsEnabled() {
			n++
		}
	}
	return n
}

// NewFilterForColumn creates an enabled filter whose variant matches the
// column type: dates start as "equals today", amounts as "greater than 0",
// and text as "contains" with an empty operand.
func NewFilterForColumn(column int, typ ColumnType, today time.Time) Filter {
	switch typ {
	case ColumnDate:
		return DateFilter{
			ColumnIndex: column,
			Operator:    DateEquals,
			Value:       today.Format("2006-01-02"),
			Enabled:     true,
		}
	case ColumnNumber:
		return AmountFilter{
			ColumnIndex: column,
			Operator:    AmountGreaterThan,
			Value:       0,
			Enabled:     true,
		}
	default:
		return TextFilter{
			ColumnIndex: column,
			Operator:    TextContains,
			Enabled:     true,
		}
	}
}

// CloneFilters returns a copy of filters that shares no mutable state.
func CloneFilters(filters []Filter) []Filter {
	if filters == nil {
		return nil
	}
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, f.WithEnabled(f.IsEnabled()))
	}
	return out
}

// AddFilter returns a new list with f appended.
func AddFilter(filters []Filter, f Filter) []Filter {
	out := CloneFilters(filters)
	return append(out, f)
}

// RemoveFilter returns a new list without the filter at index i.
// An out-of-range index returns an unchanged copy.
func RemoveFilter(filters []Filter, i int) []Filter {
	out := CloneFilters(filters)
	if i < 0 || i >= len(out) {
		return out
	}
	return append(out[:i], out[i+1:]...)
}

// ReplaceFilter returns a new list with the filter at index i replaced by f.
func ReplaceFilter(filters []Filter, i int, f Filter) []Filter {
	out := CloneFilters(filters)
	if i < 0 || i >= len(out) {
		return out
	}
	out[i] = f
	return out
}

// ToggleFilter returns a new list with the enabled flag of filter i flipped.
// The filter itself is kept, never deleted.
func ToggleFilter(filters []Filter, i int) []Filter {
	out := CloneFilters(filters)
	if i < 0 || i >= len(out) || out[i] == nil {
		return out
	}
	out[i] = out[i].WithEnabled(!out[i].IsEnabled())
	return out
}
