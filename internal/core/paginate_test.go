package core

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// renderLinks formats links compactly: "0 1 2 … 9".
func renderLinks(links []PageLink) string {
	parts := make([]string, len(links))
	for i, l := range links {
		if l.Ellipsis {
			parts[i] = "…"
		} else {
			parts[i] = fmt.Sprint(l.Page)
		}
	}
	return strings.Join(parts, " ")
}

func TestPageLinks(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{name: "no pages", current: 0, total: 0, want: ""},
		{name: "single page", current: 0, total: 1, want: "0"},
		{name: "exactly seven", current: 3, total: 7, want: "0 1 2 3 4 5 6"},
		{name: "near start", current: 0, total: 10, want: "0 1 2 3 4 … 9"},
		{name: "near start edge", current: 2, total: 10, want: "0 1 2 3 4 … 9"},
		{name: "middle", current: 3, total: 10, want: "0 … 2 3 4 … 9"},
		{name: "middle later", current: 5, total: 10, want: "0 … 4 5 6 … 9"},
		{name: "near end edge", current: 6, total: 10, want: "0 … 5 6 7 … 9"},
		{name: "near end", current: 7, total: 10, want: "0 … 5 6 7 8 9"},
		{name: "last page", current: 9, total: 10, want: "0 … 5 6 7 8 9"},
		{name: "current beyond range is clamped", current: 42, total: 10, want: "0 … 5 6 7 8 9"},
		{name: "negative current is clamped", current: -3, total: 10, want: "0 1 2 3 4 … 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderLinks(PageLinks(tt.current, tt.total))
			if got != tt.want {
				t.Errorf("PageLinks(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestPageLinks_NeverExceedsMax(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 0; current < total; current++ {
			links := PageLinks(current, total)
			if len(links) > MaxPageLinks {
				t.Fatalf("PageLinks(%d, %d) has %d entries", current, total, len(links))
			}
			if links[0].Page != 0 || links[len(links)-1].Page != total-1 {
				t.Fatalf("PageLinks(%d, %d) = %q, first and last page must be visible", current, total, renderLinks(links))
			}
			found := false
			for _, l := range links {
				if l.Page == current {
					found = true
				}
			}
			if !found {
				t.Fatalf("PageLinks(%d, %d) = %q, current page missing", current, total, renderLinks(links))
			}
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{page: 0, total: 5, want: 0},
		{page: 4, total: 5, want: 4},
		{page: 5, total: 5, want: 4},
		{page: -1, total: 5, want: 0},
		{page: 3, total: 0, want: 0},
	}

	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestBrowse(t *testing.T) {
	tables := []Table{
		NewTable([][]string{{"Name", "Amount"}, {"Widget", "$1,200"}, {"Gadget", "$50"}}),
		NewTable([][]string{{"Invoice", "Total"}, {"INV-1", "$10"}}),
		NewTable([][]string{{"Name", "Amount"}, {"Widget XL", "$2,000"}}),
	}

	t.Run("one table per page", func(t *testing.T) {
		res := Browse(tables, ViewState{Page: 1, Sort: Unsorted})
		if res.TotalPages != 3 || res.Page != 1 || res.Matches != 3 {
			t.Fatalf("got page %d of %d (%d matches)", res.Page, res.TotalPages, res.Matches)
		}
		if res.Table == nil || res.Table.Rows[0][0] != "Invoice" {
			t.Fatalf("wrong table on page 1: %+v", res.Table)
		}
		if res.RowCount != 1 {
			t.Errorf("RowCount = %d, want 1", res.RowCount)
		}
	})

	t.Run("search narrows the collection", func(t *testing.T) {
		res := Browse(tables, ViewState{Page: 1, Search: "widget", Sort: Unsorted})
		if res.Matches != 2 || res.TotalPages != 2 {
			t.Fatalf("Matches = %d, TotalPages = %d, want 2, 2", res.Matches, res.TotalPages)
		}
		if res.Table.Rows[1][0] != "Widget XL" {
			t.Errorf("page 1 shows %q, want the second matching table", res.Table.Rows[1][0])
		}
	})

	t.Run("filters and sort apply to the shown table", func(t *testing.T) {
		res := Browse(tables, ViewState{
			Sort: SortSpec{Column: 0, Direction: SortDesc},
			Filters: FilterList{
				AmountFilter{ColumnIndex: 1, Operator: AmountGreaterThan, Value: 10, Enabled: true},
				TextFilter{ColumnIndex: 0, Operator: TextEquals, Value: "zzz", Enabled: false},
			},
		})
		want := [][]string{{"Name", "Amount"}, {"Widget", "$1,200"}, {"Gadget", "$50"}}
		if !reflect.DeepEqual(res.Table.Grid(), want) {
			t.Errorf("Table = %v, want %v", res.Table.Grid(), want)
		}
		if res.Active != 1 {
			t.Errorf("Active = %d, want 1", res.Active)
		}
	})

	t.Run("columns describe the unfiltered table", func(t *testing.T) {
		res := Browse(tables, ViewState{
			Sort: Unsorted,
			Filters: FilterList{
				AmountFilter{ColumnIndex: 1, Operator: AmountGreaterThan, Value: 1e12, Enabled: true},
			},
		})
		if res.RowCount != 0 {
			t.Fatalf("RowCount = %d, want 0", res.RowCount)
		}
		if len(res.Columns) != 2 || res.Columns[1].Type != ColumnNumber {
			t.Errorf("Columns = %+v, want Amount still number", res.Columns)
		}
	})

	t.Run("page out of range is clamped", func(t *testing.T) {
		res := Browse(tables, ViewState{Page: 99, Sort: Unsorted})
		if res.Page != 2 {
			t.Errorf("Page = %d, want 2", res.Page)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		res := Browse(tables, ViewState{Search: "sprocket", Sort: Unsorted})
		if res.Table != nil || res.RowCount != 0 || res.Matches != 0 {
			t.Errorf("got %+v, want empty result", res)
		}
		if res.TotalPages != 1 {
			t.Errorf("TotalPages = %d, want 1", res.TotalPages)
		}
	})
}
