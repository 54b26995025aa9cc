package core

// infer.go classifies columns as text, number or date.
//
// Two policies exist for two call sites and are intentionally separate:
//
//   - Preview (InferColumnType): used while browsing extracted tables. Looks at
//     the first 10 non-empty values and tolerates OCR noise: a column is a date
//     or number column when more than 70% of the sample parses as such.
//   - Strict (InferColumnTypeStrict): used for full dataset ingestion. Looks at
//     the non-empty values among the first 10 rows and requires every one of
//     them to parse as the same type.

import (
	"strconv"
	"strings"
)

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
	ColumnDate   ColumnType = "date"
)

// Inference tuning.
const (
	// SampleLimit caps how many values are inspected per column.
	SampleLimit = 10

	// PreviewTypeThreshold is the fraction of the preview sample that must
	// parse as a type before the column is classified as that type.
	PreviewTypeThreshold = 0.7
)

// ColumnDescriptor describes one column. It is derived data: recompute it
// whenever the source rows change.
type ColumnDescriptor struct {
	Index  int        `json:"index"`
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Sample string     `json:"sample,omitempty"`
}

// InferColumnType classifies a column from preview samples, reading
// ambiguous dates month-first.
func InferColumnType(samples []string) ColumnType {
	return MonthFirst.InferColumnType(samples)
}

// InferColumnType classifies a column from preview samples.
//
// Empty samples are dropped and at most SampleLimit non-empty values are
// considered. A value that parses as a date counts toward dates only; other
// values that parse as amounts count toward numbers. Dates win over numbers
// when both exceed PreviewTypeThreshold.
func (o DateOrder) InferColumnType(samples []string) ColumnType {
	var dates, amounts, total int

	for _, s := range samples {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if total == SampleLimit {
			break
		}
		total++

		if _, ok := o.Parse(s); ok {
			dates++
		} else if _, ok := ParseAmount(s); ok {
			amounts++
		}
	}

	if total == 0 {
		return ColumnText
	}

	if float64(dates)/float64(total) > PreviewTypeThreshold {
		return ColumnDate
	}
	if float64(amounts)/float64(total) > PreviewTypeThreshold {
		return ColumnNumber
	}
	return ColumnText
}

// InferColumnTypeStrict classifies a column for full dataset ingestion,
// reading ambiguous dates month-first.
func InferColumnTypeStrict(samples []string) ColumnType {
	return MonthFirst.InferColumnTypeStrict(samples)
}

// InferColumnTypeStrict classifies a column only when every non-empty value
// in the first SampleLimit samples parses as the same type. Numbers are
// checked before dates.
func (o DateOrder) InferColumnTypeStrict(samples []string) ColumnType {
	if len(samples) > SampleLimit {
		samples = samples[:SampleLimit]
	}

	values := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(s); s != "" {
			values = append(values, s)
		}
	}
	if len(values) == 0 {
		return ColumnText
	}

	allNumbers, allDates := true, true
	for _, v := range values {
		if _, ok := ParseAmount(v); !ok {
			allNumbers = false
		}
		if _, ok := o.Parse(v); !ok {
			allDates = false
		}
	}

	switch {
	case allNumbers:
		return ColumnNumber
	case allDates:
		return ColumnDate
	default:
		return ColumnText
	}
}

// ColumnSamples returns the values of column i across rows, with "" for
// rows too short to reach it.
func ColumnSamples(rows []Row, i int) []string {
	out := make([]string, len(rows))
	for j, r := range rows {
		out[j] = r.Cell(i)
	}
	return out
}

// DescribeColumns derives preview-mode descriptors for every column of t.
func (o DateOrder) DescribeColumns(t Table) []ColumnDescriptor {
	return describe(t, o.InferColumnType)
}

// DescribeColumnsStrict derives ingestion-mode descriptors for every column of t.
func (o DateOrder) DescribeColumnsStrict(t Table) []ColumnDescriptor {
	return describe(t, o.InferColumnTypeStrict)
}

// DescribeColumns derives preview-mode descriptors with month-first dates.
func DescribeColumns(t Table) []ColumnDescriptor {
	return MonthFirst.DescribeColumns(t)
}

func describe(t Table, infer func([]string) ColumnType) []ColumnDescriptor {
	header := t.Header()
	width := t.Width()
	data := t.DataRows()

	cols := make([]ColumnDescriptor, width)
	for i := 0; i < width; i++ {
		samples := ColumnSamples(data, i)
		cols[i] = ColumnDescriptor{
			Index:  i,
			Name:   columnName(header, i),
			Type:   infer(samples),
			Sample: firstNonEmpty(samples, SampleLimit),
		}
	}
	return cols
}

// columnName returns the header label, falling back to "Column N".
func columnName(header Row, i int) string {
	if name := strings.TrimSpace(header.Cell(i)); name != "" {
		return name
	}
	return "Column " + strconv.Itoa(i+1)
}

func firstNonEmpty(values []string, limit int) string {
	for i, v := range values {
		if i == limit {
			break
		}
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
