package core

import (
	"encoding/json"
	"fmt"
)

// The wire form of a filter is a flat object discriminated by "type":
//
//	{"type":"amount","columnIndex":1,"operator":"between","value":10,"value2":100,"enabled":true}

func (f TextFilter) MarshalJSON() ([]byte, error) {
	type plain TextFilter
	return json.Marshal(struct {
		Type FilterKind `json:"type"`
		plain
	}{KindText, plain(f)})
}

func (f DateFilter) MarshalJSON() ([]byte, error) {
	type plain DateFilter
	return json.Marshal(struct {
		Type FilterKind `json:"type"`
		plain
	}{KindDate, plain(f)})
}

func (f AmountFilter) MarshalJSON() ([]byte, error) {
	type plain AmountFilter
	return json.Marshal(struct {
		Type FilterKind `json:"type"`
		plain
	}{KindAmount, plain(f)})
}

// filterEnvelope reads the discriminant plus the fields every variant has.
type filterEnvelope struct {
	Type        FilterKind `json:"type"`
	ColumnIndex *int       `json:"columnIndex"`
	Operator    string     `json:"operator"`
	Enabled     *bool      `json:"enabled"`
}

// UnmarshalFilter decodes one filter, dispatching on its "type" field.
// A missing "enabled" defaults to true. The result is validated; unknown
// types and operators are errors.
func UnmarshalFilter(data []byte) (Filter, error) {
	var env filterEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if env.ColumnIndex == nil {
		return nil, fmt.Errorf("invalid filter: missing columnIndex")
	}
	enabled := env.Enabled == nil || *env.Enabled

	var f Filter
	switch env.Type {
	case KindText:
		var v struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid filter: text value: %w", err)
		}
		f = TextFilter{
			ColumnIndex: *env.ColumnIndex,
			Operator:    TextOperator(env.Operator),
			Value:       v.Value,
			Enabled:     enabled,
		}

	case KindDate:
		var v struct {
			Value  string `json:"value"`
			Value2 string `json:"value2"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid filter: date value: %w", err)
		}
		f = DateFilter{
			ColumnIndex: *env.ColumnIndex,
			Operator:    DateOperator(env.Operator),
			Value:       v.Value,
			Value2:      v.Value2,
			Enabled:     enabled,
		}

	case KindAmount:
		var v struct {
			Value  float64  `json:"value"`
			Value2 *float64 `json:"value2"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid filter: amount value: %w", err)
		}
		f = AmountFilter{
			ColumnIndex: *env.ColumnIndex,
			Operator:    AmountOperator(env.Operator),
			Value:       v.Value,
			Value2:      v.Value2,
			Enabled:     enabled,
		}

	default:
		return nil, fmt.Errorf("invalid filter: unknown type %q", env.Type)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// FilterList is an ordered filter sequence with a polymorphic JSON form.
type FilterList []Filter

// UnmarshalJSON decodes a JSON array of filters. Any invalid element fails
// the whole list; callers that must tolerate bad entries decode element by
// element instead.
func (l *FilterList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid filter list: %w", err)
	}
	if raw == nil {
		*l = nil
		return nil
	}
	out := make(FilterList, 0, len(raw))
	for i, r := range raw {
		f, err := UnmarshalFilter(r)
		if err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
		out = append(out, f)
	}
	*l = out
	return nil
}

// MarshalJSON encodes the list; a nil list encodes as [].
func (l FilterList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Filter(l))
}
