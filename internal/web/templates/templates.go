// Package templates renders the HTML fragments swapped in by htmx.
//
// Components are plain templ.ComponentFunc values; every dynamic string
// goes through templ.EscapeString.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/a-h/templ"
)

// html accumulates the first write error so components can emit markup
// without checking every call.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func component(render func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		render(h)
		return h.err
	})
}

// ErrorAlert is the fragment shown in place of a failed htmx swap.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="alert-action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<p class="alert-code">Code: `)
		h.text(code)
		h.raw(`</p></div>`)
	})
}

// sortIndicator shows the active direction on the sorted column.
func sortIndicator(spec core.SortSpec, column int) string {
	if !spec.Active() || spec.Column != column {
		return ""
	}
	if spec.Direction == core.SortDesc {
		return " ▼"
	}
	return " ▲"
}

// ViewTable renders one browsed page: the derived table, a row count and
// the paginator. Header cells carry data-column for the sort toggle.
func ViewTable(res core.BrowseResult, cols []core.ColumnDescriptor, sort core.SortSpec) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="table-view" data-page="` + strconv.Itoa(res.Page) + `">`)

		if res.Table == nil {
			h.raw(`<p class="empty">No tables match the search.</p></div>`)
			return
		}

		h.raw(`<table><thead><tr>`)
		for _, c := range cols {
			h.raw(`<th data-column="` + strconv.Itoa(c.Index) + `" data-type="`)
			h.text(string(c.Type))
			h.raw(`">`)
			h.text(c.Name + sortIndicator(sort, c.Index))
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)

		width := len(cols)
		for _, row := range res.Table.DataRows() {
			h.raw(`<tr>`)
			for i := 0; i < width; i++ {
				h.raw(`<td>`)
				h.text(row.Cell(i))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<p class="row-count">` + strconv.Itoa(res.RowCount) + ` rows`)
		if res.Active > 0 {
			h.raw(` (` + strconv.Itoa(res.Active) + ` filters active)`)
		}
		h.raw(`</p>`)

		renderPaginator(h, res.Links, res.Page)
		h.raw(`</div>`)
	})
}

// Paginator renders page links alone, for swaps that keep the table.
func Paginator(links []core.PageLink, current int) templ.Component {
	return component(func(h *html) {
		renderPaginator(h, links, current)
	})
}

func renderPaginator(h *html, links []core.PageLink, current int) {
	if len(links) == 0 {
		return
	}
	h.raw(`<nav class="pagination">`)
	for _, l := range links {
		switch {
		case l.Ellipsis:
			h.raw(`<span class="ellipsis">…</span>`)
		case l.Page == current:
			h.raw(`<span class="page current" aria-current="page">` + strconv.Itoa(l.Page+1) + `</span>`)
		default:
			h.raw(`<button class="page" data-page="` + strconv.Itoa(l.Page) + `">` + strconv.Itoa(l.Page+1) + `</button>`)
		}
	}
	h.raw(`</nav>`)
}

// PresetList renders saved filter sets, newest last.
func PresetList(sets []core.FilterSet) templ.Component {
	return component(func(h *html) {
		if len(sets) == 0 {
			h.raw(`<p class="empty">No saved filter sets.</p>`)
			return
		}
		h.raw(`<ul class="presets">`)
		for _, fs := range sets {
			h.raw(`<li data-preset="`)
			h.text(fs.ID)
			h.raw(`"><span class="name">`)
			h.text(fs.Name)
			h.raw(`</span> <span class="count">` + strconv.Itoa(len(fs.Filters)) + ` filters</span></li>`)
		}
		h.raw(`</ul>`)
	})
}
