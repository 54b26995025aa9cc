package core

// paginate.go pages over a collection of tables, one table per page, and
// builds the compact page list shown by a paginator.

// MaxPageLinks is the most entries a paginator shows, ellipses included.
const MaxPageLinks = 7

// PageLink is one paginator entry: a zero-based page index or an ellipsis.
type PageLink struct {
	Page     int  `json:"page"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageCount returns the number of pages for n tables, at least 1.
func PageCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ClampPage keeps page within [0, total).
func ClampPage(page, total int) int {
	if page < 0 || total <= 0 {
		return 0
	}
	if page >= total {
		return total - 1
	}
	return page
}

// PageLinks returns the paginator entries for current (zero-based) out of
// total pages.
//
// Up to MaxPageLinks pages are all listed. Beyond that the first and last
// page stay visible and the rest collapses around the current page:
//
//	current near start:  0 1 2 3 4 … last
//	current near end:    0 … last-4 last-3 last-2 last-1 last
//	otherwise:           0 … current-1 current current+1 … last
func PageLinks(current, total int) []PageLink {
	if total <= 0 {
		return nil
	}
	current = ClampPage(current, total)

	pages := func(from, to int) []PageLink {
		out := make([]PageLink, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, PageLink{Page: i})
		}
		return out
	}
	ellipsis := PageLink{Page: -1, Ellipsis: true}

	if total <= MaxPageLinks {
		return pages(0, total-1)
	}

	last := total - 1
	switch {
	case current < 3:
		out := pages(0, 4)
		return append(out, ellipsis, PageLink{Page: last})
	case current > total-4:
		out := []PageLink{{Page: 0}, ellipsis}
		return append(out, pages(total-5, last)...)
	default:
		out := []PageLink{{Page: 0}, ellipsis}
		out = append(out, pages(current-1, current+1)...)
		return append(out, ellipsis, PageLink{Page: last})
	}
}

// ViewState is the per-session browsing state owned by the caller.
type ViewState struct {
	Page    int        `json:"page"`
	Search  string     `json:"search"`
	Sort    SortSpec   `json:"sort"`
	Filters FilterList `json:"filters"`
}

// BrowseResult is everything a caller needs to render one page.
type BrowseResult struct {
	// Page is the clamped zero-based page actually shown.
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Matches    int        `json:"matches"`
	Table      *Table     `json:"table,omitempty"`
	RowCount   int        `json:"rowCount"`
	Active     int        `json:"activeFilters"`
	Links      []PageLink `json:"links"`
	// Columns describes the shown table before filtering, so column types
	// survive a filter that hides every row.
	Columns []ColumnDescriptor `json:"columns"`
}

// Browse applies search, picks the page's table, and derives its view.
// When no table matches the search, Table is nil and RowCount is 0.
func (o ViewOptions) Browse(tables []Table, state ViewState) BrowseResult {
	matches := SearchTables(tables, state.Search)
	total := PageCount(len(matches))
	page := ClampPage(state.Page, total)

	res := BrowseResult{
		Page:       page,
		TotalPages: total,
		Matches:    len(matches),
		Active:     ActiveFilterCount(state.Filters),
		Links:      PageLinks(page, total),
	}
	if len(matches) == 0 {
		return res
	}

	source := matches[page]
	view := o.DeriveView(source, state.Filters, state.Sort)
	res.Table = &view
	res.Columns = o.DateOrder.DescribeColumns(source)
	res.RowCount = view.DataRowCount()
	return res
}

// Browse uses the default options.
func Browse(tables []Table, state ViewState) BrowseResult {
	return DefaultViewOptions().Browse(tables, state)
}
