package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseAmount Tests
// ----------------------------------------------------------------------------

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		// Valid: plain numbers
		{name: "integer", input: "123", want: 123, wantOK: true},
		{name: "zero", input: "0", want: 0, wantOK: true},
		{name: "negative", input: "-45", want: -45, wantOK: true},
		{name: "decimal", input: "123.45", want: 123.45, wantOK: true},
		{name: "leading decimal point", input: ".99", want: 0.99, wantOK: true},
		{name: "trailing decimal point", input: "99.", want: 99, wantOK: true},
		{name: "exponent", input: "1e3", want: 1000, wantOK: true},
		{name: "surrounding whitespace", input: "  42  ", want: 42, wantOK: true},

		// Valid: currency formatting
		{name: "dollar with thousands", input: "$1,234.56", want: 1234.56, wantOK: true},
		{name: "euro with space", input: "€ 99", want: 99, wantOK: true},
		{name: "pound", input: "£10", want: 10, wantOK: true},
		{name: "yen", input: "¥1000", want: 1000, wantOK: true},
		{name: "rupee", input: "₹2,50,000", want: 250000, wantOK: true},
		{name: "non-breaking space separator", input: "1\u00a0000", want: 1000, wantOK: true},

		// Valid: accounting negatives
		{name: "parenthesized", input: "(1,234.50)", want: -1234.5, wantOK: true},
		{name: "parenthesized currency", input: "($50)", want: -50, wantOK: true},

		// Invalid
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "letters", input: "abc", wantOK: false},
		{name: "trailing garbage", input: "12abc", wantOK: false},
		{name: "empty parentheses", input: "()", wantOK: false},
		{name: "NaN literal", input: "NaN", wantOK: false},
		{name: "infinity literal", input: "Inf", wantOK: false},
		{name: "overflow", input: "1e400", wantOK: false},
		{name: "date", input: "2024-01-15", wantOK: false},
		{name: "two decimal points", input: "1.2.3", wantOK: false},
		{name: "currency symbol only", input: "$", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string // YYYY-MM-DD
		wantOK bool
	}{
		// Calendar layouts
		{name: "RFC3339", input: "2024-01-15T10:30:00Z", want: "2024-01-15", wantOK: true},
		{name: "ISO datetime", input: "2024-01-15 10:30:00", want: "2024-01-15", wantOK: true},
		{name: "slashed ISO", input: "2024/01/15", want: "2024-01-15", wantOK: true},
		{name: "month name", input: "Jan 15, 2024", want: "2024-01-15", wantOK: true},
		{name: "long month name", input: "January 15, 2024", want: "2024-01-15", wantOK: true},

		// Fallback patterns
		{name: "ISO date", input: "2024-01-15", want: "2024-01-15", wantOK: true},
		{name: "ISO date single digits", input: "2024-1-5", want: "2024-01-05", wantOK: true},
		{name: "US slashes", input: "01/15/2024", want: "2024-01-15", wantOK: true},
		{name: "US slashes single digits", input: "1/5/2024", want: "2024-01-05", wantOK: true},
		{name: "two-digit year", input: "01/15/24", want: "2024-01-15", wantOK: true},
		{name: "US dashes", input: "01-15-2024", want: "2024-01-15", wantOK: true},
		{name: "leap day", input: "02/29/2024", want: "2024-02-29", wantOK: true},
		{name: "surrounding whitespace", input: "  2024-01-15 ", want: "2024-01-15", wantOK: true},

		// Invalid
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: " \t ", wantOK: false},
		{name: "text", input: "hello", wantOK: false},
		{name: "number", input: "1234", wantOK: false},
		{name: "impossible day", input: "02/30/2024", wantOK: false},
		{name: "not a leap year", input: "02/29/2023", wantOK: false},
		{name: "month 13 read month-first", input: "13/01/2024", wantOK: false},
		{name: "month zero", input: "2024-00-10", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	pivot := time.Now().Year() + TwoDigitYearPivot

	tests := []struct {
		name     string
		input    string
		wantYear int
	}{
		{name: "recent year", input: "06/01/24", wantYear: 2024},
		{name: "year 00", input: "06/01/00", wantYear: 2000},
		{name: "far future rolls back", input: "06/01/99", wantYear: 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.input)
			}
			if got.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q) year = %d, want %d (pivot %d)", tt.input, got.Year(), tt.wantYear, pivot)
			}
		})
	}
}

func TestDateOrder_Parse(t *testing.T) {
	tests := []struct {
		name   string
		order  DateOrder
		input  string
		want   string
		wantOK bool
	}{
		{name: "month-first", order: MonthFirst, input: "03/04/2024", want: "2024-03-04", wantOK: true},
		{name: "day-first", order: DayFirst, input: "03/04/2024", want: "2024-04-03", wantOK: true},
		{name: "day-first accepts day 13", order: DayFirst, input: "13/01/2024", want: "2024-01-13", wantOK: true},
		{name: "day-first rejects month 13", order: DayFirst, input: "01/13/2024", wantOK: false},
		{name: "ISO unaffected by order", order: DayFirst, input: "2024-03-04", want: "2024-03-04", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.order.Parse(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseDateOrder(t *testing.T) {
	tests := []struct {
		input  string
		want   DateOrder
		wantOK bool
	}{
		{input: "", want: MonthFirst, wantOK: true},
		{input: "month-first", want: MonthFirst, wantOK: true},
		{input: "MDY", want: MonthFirst, wantOK: true},
		{input: "day-first", want: DayFirst, wantOK: true},
		{input: " dmy ", want: DayFirst, wantOK: true},
		{input: "year-first", want: MonthFirst, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDateOrder(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDateOrder(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
