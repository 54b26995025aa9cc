package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// memStore is an in-test PresetStore.
type memStore struct {
	mu      sync.Mutex
	sets    []FilterSet
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) ([]FilterSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FilterSet(nil), m.sets...), nil
}

func (m *memStore) Save(ctx context.Context, sets []FilterSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.sets = append([]FilterSet(nil), sets...)
	return nil
}

func newTestPresets(store PresetStore) *Presets {
	p := NewPresets(store)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var n int
	p.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return p
}

func TestNewFilterSet(t *testing.T) {
	filters := []Filter{TextFilter{ColumnIndex: 0, Operator: TextContains, Value: "a", Enabled: true}}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	fs, err := NewFilterSet("  Big invoices  ", filters, now)
	if err != nil {
		t.Fatalf("NewFilterSet() error = %v", err)
	}
	if fs.Name != "Big invoices" {
		t.Errorf("Name = %q, want trimmed", fs.Name)
	}
	if !strings.HasPrefix(fs.ID, PresetIDPrefix) {
		t.Errorf("ID = %q, want prefix %q", fs.ID, PresetIDPrefix)
	}
	if !fs.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", fs.CreatedAt, now)
	}

	other, _ := NewFilterSet("x", filters, now)
	if other.ID == fs.ID {
		t.Error("IDs should be unique")
	}

	if _, err := NewFilterSet("   ", filters, now); !errors.Is(err, ErrPresetNameRequired) {
		t.Errorf("blank name error = %v, want ErrPresetNameRequired", err)
	}
}

func TestPresets_SaveIsASnapshot(t *testing.T) {
	ctx := context.Background()
	p := newTestPresets(&memStore{})

	active := []Filter{TextFilter{ColumnIndex: 0, Operator: TextContains, Value: "wid", Enabled: true}}
	fs, err := p.Save(ctx, "widgets", active)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Editing the active list afterwards must not reach the preset.
	active = ToggleFilter(active, 0)
	active[0] = TextFilter{ColumnIndex: 0, Operator: TextEquals, Value: "changed", Enabled: true}

	got, err := p.Get(ctx, fs.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	tf := got.Filters[0].(TextFilter)
	if tf.Value != "wid" || !tf.Enabled {
		t.Errorf("preset changed after save: %+v", tf)
	}
}

func TestPresets_ApplyReplacesWithFreshCopy(t *testing.T) {
	ctx := context.Background()
	p := newTestPresets(&memStore{})

	bound := 500.0
	fs, err := p.Save(ctx, "range", []Filter{
		AmountFilter{ColumnIndex: 1, Operator: AmountBetween, Value: 100, Value2: &bound, Enabled: true},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	applied, err := p.Apply(ctx, fs.ID)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	*applied[0].(AmountFilter).Value2 = 1

	again, _ := p.Apply(ctx, fs.ID)
	if *again[0].(AmountFilter).Value2 != 500 {
		t.Error("mutating an applied filter list reached the stored preset")
	}
}

func TestPresets_DeleteLeavesActiveFiltersAlone(t *testing.T) {
	ctx := context.Background()
	p := newTestPresets(&memStore{})

	fs, _ := p.Save(ctx, "one", []Filter{TextFilter{ColumnIndex: 0, Operator: TextContains, Value: "a", Enabled: true}})
	active, _ := p.Apply(ctx, fs.ID)

	if err := p.Delete(ctx, fs.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(active) != 1 || active[0].(TextFilter).Value != "a" {
		t.Errorf("active filters changed after delete: %+v", active)
	}
	if _, err := p.Get(ctx, fs.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrPresetNotFound", err)
	}
	if err := p.Delete(ctx, fs.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("second Delete() error = %v, want ErrPresetNotFound", err)
	}
}

func TestPresets_CapDropsOldest(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	p := newTestPresets(store)

	for i := 0; i < MaxPresets+3; i++ {
		if _, err := p.Save(ctx, fmt.Sprintf("preset %d", i), nil); err != nil {
			t.Fatalf("Save(%d) error = %v", i, err)
		}
	}

	sets, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sets) != MaxPresets {
		t.Fatalf("List() len = %d, want %d", len(sets), MaxPresets)
	}
	if sets[0].Name != "preset 3" {
		t.Errorf("oldest kept = %q, want %q", sets[0].Name, "preset 3")
	}
	if sets[len(sets)-1].Name != fmt.Sprintf("preset %d", MaxPresets+2) {
		t.Errorf("newest = %q", sets[len(sets)-1].Name)
	}
}

func TestPresets_SaveErrorWrapped(t *testing.T) {
	p := newTestPresets(&memStore{saveErr: errors.New("disk full")})

	_, err := p.Save(context.Background(), "x", nil)
	if err == nil || !strings.Contains(err.Error(), "save presets") {
		t.Fatalf("Save() error = %v, want wrapped save error", err)
	}
	if MapError(err).Code != "PRE003" {
		t.Errorf("MapError code = %q, want PRE003", MapError(err).Code)
	}
}

func TestDecodeFilterSets_DropsMalformedEntries(t *testing.T) {
	data := `[
		{"id":"filter_1","name":"good","filters":[{"type":"text","columnIndex":0,"operator":"contains","value":"a","enabled":true}],"createdAt":"2024-01-01T00:00:00Z"},
		{"name":"no id","filters":[]},
		{"id":"filter_3","filters":[]},
		{"id":"filter_4","name":"no filters"},
		{"id":"filter_5","name":"one bad filter","filters":[{"type":"nope","columnIndex":0},{"type":"amount","columnIndex":1,"operator":"lessThan","value":5}]},
		"not an object",
		{"id":"filter_7","name":"empty ok","filters":[]}
	]`

	sets, dropped := DecodeFilterSets([]byte(data))
	if dropped != 4 {
		t.Errorf("dropped = %d, want 4", dropped)
	}
	if len(sets) != 3 {
		t.Fatalf("kept %d sets, want 3", len(sets))
	}
	if sets[0].ID != "filter_1" || sets[1].ID != "filter_5" || sets[2].ID != "filter_7" {
		t.Errorf("kept IDs = %q, %q, %q", sets[0].ID, sets[1].ID, sets[2].ID)
	}
	// Only the undecodable filter is skipped; the preset keeps the rest.
	if len(sets[1].Filters) != 1 || sets[1].Filters[0].Kind() != KindAmount {
		t.Errorf("filter_5 filters = %+v, want the amount filter only", sets[1].Filters)
	}
	if sets[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not decoded")
	}
}

func TestDecodeFilterSets_EdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantLen     int
		wantDropped int
	}{
		{name: "empty", input: "", wantLen: 0, wantDropped: 0},
		{name: "empty array", input: "[]", wantLen: 0, wantDropped: 0},
		{name: "not json", input: "{{{", wantLen: 0, wantDropped: 1},
		{name: "object instead of array", input: `{"id":"x"}`, wantLen: 0, wantDropped: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets, dropped := DecodeFilterSets([]byte(tt.input))
			if len(sets) != tt.wantLen || dropped != tt.wantDropped {
				t.Errorf("DecodeFilterSets() = %d sets, %d dropped; want %d, %d", len(sets), dropped, tt.wantLen, tt.wantDropped)
			}
		})
	}
}

func TestDecodeFilterSets_CapsOversizedInput(t *testing.T) {
	var sets []FilterSet
	for i := 0; i < MaxPresets+5; i++ {
		sets = append(sets, FilterSet{ID: fmt.Sprintf("filter_%d", i), Name: "n", Filters: FilterList{}})
	}
	data, err := EncodeFilterSets(sets)
	if err != nil {
		t.Fatalf("EncodeFilterSets() error = %v", err)
	}

	got, dropped := DecodeFilterSets(data)
	if len(got) != MaxPresets || dropped != 5 {
		t.Errorf("got %d sets, %d dropped; want %d, 5", len(got), dropped, MaxPresets)
	}
	if got[0].ID != "filter_5" {
		t.Errorf("first kept = %q, want filter_5", got[0].ID)
	}
}

func TestEncodeFilterSets_Nil(t *testing.T) {
	data, err := EncodeFilterSets(nil)
	if err != nil {
		t.Fatalf("EncodeFilterSets() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("EncodeFilterSets(nil) = %s, want []", data)
	}
}
