package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/JonMunkholm/docgrid/internal/core"
	"gopkg.in/yaml.v3"
)

// viewFile is the YAML form of a view:
//
//	search: acme
//	page: 0
//	dateOrder: day-first
//	locale: en
//	sort: {column: 2, direction: desc}
//	filters:
//	  - type: amount
//	    columnIndex: 2
//	    operator: between
//	    value: 10
//	    value2: 500
type viewFile struct {
	Search    string           `yaml:"search"`
	Page      int              `yaml:"page"`
	DateOrder string           `yaml:"dateOrder"`
	Locale    string           `yaml:"locale"`
	Sort      *sortFile        `yaml:"sort"`
	Filters   []map[string]any `yaml:"filters"`
}

type sortFile struct {
	Column    int    `yaml:"column"`
	Direction string `yaml:"direction"`
}

// loadView reads and validates a view file. An empty path yields the
// default view: first page, no search, no sort, no filters.
func loadView(path string) (viewFile, core.ViewState, error) {
	state := core.ViewState{Sort: core.Unsorted}
	if path == "" {
		return viewFile{}, state, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return viewFile{}, state, fmt.Errorf("read view: %w", err)
	}
	vf, state, err := parseView(data)
	if err != nil {
		return viewFile{}, state, fmt.Errorf("%s: %w", path, err)
	}
	return vf, state, nil
}

func parseView(data []byte) (viewFile, core.ViewState, error) {
	state := core.ViewState{Sort: core.Unsorted}

	var vf viewFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return vf, state, fmt.Errorf("invalid view: %w", err)
	}

	state.Search = vf.Search
	state.Page = vf.Page

	if vf.Sort != nil {
		dir := core.SortDirection(vf.Sort.Direction)
		switch dir {
		case core.SortAsc, core.SortDesc:
		case core.SortUnset:
			dir = core.SortAsc
		default:
			return vf, state, fmt.Errorf("invalid view: sort direction %q", vf.Sort.Direction)
		}
		if vf.Sort.Column < 0 {
			return vf, state, fmt.Errorf("invalid view: negative sort column")
		}
		state.Sort = core.SortSpec{Column: vf.Sort.Column, Direction: dir}
	}

	for i, raw := range vf.Filters {
		// Filters share the JSON wire form so presets and views decode alike.
		b, err := json.Marshal(normalize(raw))
		if err != nil {
			return vf, state, fmt.Errorf("invalid filter %d: %w", i, err)
		}
		f, err := core.UnmarshalFilter(b)
		if err != nil {
			return vf, state, fmt.Errorf("filter %d: %w", i, err)
		}
		state.Filters = append(state.Filters, f)
	}
	return vf, state, nil
}

// normalize turns YAML timestamps back into the YYYY-MM-DD operands date
// filters expect.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if t, ok := v.(time.Time); ok {
			v = t.Format("2006-01-02")
		}
		out[k] = v
	}
	return out
}
