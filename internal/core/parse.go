package core

// parse.go interprets raw cell text as amounts and calendar dates.
//
// Extracted tables are messy: currency symbols, thousands separators,
// accounting negatives "(123.45)", and a handful of date spellings. Both
// parsers are total. A value that cannot be interpreted yields ok=false,
// never an error.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are
// assumed to be in the previous century.
var TwoDigitYearPivot = 20

// DateOrder selects how an ambiguous NN/NN/YYYY date is read.
type DateOrder int

const (
	// MonthFirst reads 03/04/2024 as March 4th. This is the default.
	MonthFirst DateOrder = iota
	// DayFirst reads 03/04/2024 as April 3rd.
	DayFirst
)

// ParseDateOrder converts a config value ("month-first", "day-first") to a DateOrder.
func ParseDateOrder(s string) (DateOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month-first", "mdy":
		return MonthFirst, true
	case "day-first", "dmy":
		return DayFirst, true
	default:
		return MonthFirst, false
	}
}

// String implements fmt.Stringer.
func (o DateOrder) String() string {
	if o == DayFirst {
		return "day-first"
	}
	return "month-first"
}

// currencyReplacer strips currency symbols, thousands separators and whitespace.
var currencyReplacer = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	",", "",
	" ", "", "\t", "", "\u00a0", "",
)

// numericRegex validates the residual after cleanup: integers and decimals,
// with an optional sign and exponent.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseAmount interprets s as a currency-formatted number.
//
// Currency symbols ($ € £ ¥ ₹), thousands separators and whitespace are
// removed. A value wrapped in parentheses is negative (accounting notation).
// Returns ok=false for empty input or a residual that is not a finite number.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	cleaned := currencyReplacer.Replace(s)
	if !numericRegex.MatchString(cleaned) {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// calendarLayouts are tried first. None of them is month/day ambiguous.
var calendarLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon Jan 2 2006",
}

// datePattern is one structural fallback pattern. The group order says
// which capture holds the year; the remaining two are month/day in the
// order given by DateOrder.
type datePattern struct {
	re        *regexp.Regexp
	yearFirst bool
	shortYear bool
}

// datePatterns are tried in order: YYYY-MM-DD, MM/DD/YYYY, MM/DD/YY, MM-DD-YYYY.
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), yearFirst: true},
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)},
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), shortYear: true},
	{re: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)},
}

// ParseDate interprets s as a calendar date, reading ambiguous numeric
// dates month-first.
func ParseDate(s string) (time.Time, bool) {
	return MonthFirst.Parse(s)
}

// Parse interprets s as a calendar date using this day/month order for
// ambiguous numeric forms. Returns ok=false for empty or unparseable input.
func (o DateOrder) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if t, ok := p.build(m, o); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// build assembles a date from regexp captures, rejecting impossible days
// such as 02/30/2024.
func (p datePattern) build(m []string, order DateOrder) (time.Time, bool) {
	var yearStr, first, second string
	if p.yearFirst {
		yearStr, first, second = m[1], m[2], m[3]
	} else {
		first, second, yearStr = m[1], m[2], m[3]
	}

	year, _ := strconv.Atoi(yearStr)
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)

	month, day := a, b
	if order == DayFirst && !p.yearFirst {
		month, day = b, a
	}

	if p.shortYear {
		year += 2000
		if year > time.Now().Year()+TwoDigitYearPivot {
			year -= 100
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
