package core

// preset.go models named filter snapshots ("presets") and the service that
// manages them over an injected PresetStore.
//
// A preset is a copy of the active filter list at the time it was saved. It
// has no back-reference to the active filters: loading a preset replaces
// the active list with a fresh copy, and deleting a preset never touches
// whatever is currently applied.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPresets is the most presets retained. Older entries are dropped first.
const MaxPresets = 20

// PresetIDPrefix prefixes generated preset IDs.
const PresetIDPrefix = "filter_"

var (
	// ErrPresetNotFound is returned when no preset has the requested ID.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrPresetNameRequired is returned when saving a preset with a blank name.
	ErrPresetNameRequired = errors.New("preset name is required")
)

// FilterSet is a named snapshot of a filter list.
type FilterSet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Filters   FilterList `json:"filters"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PresetStore persists the preset list in a single logical slot.
// Save replaces the whole list; the last write wins.
type PresetStore interface {
	Load(ctx context.Context) ([]FilterSet, error)
	Save(ctx context.Context, sets []FilterSet) error
}

// NewFilterSet snapshots filters under name. The filters are copied.
func NewFilterSet(name string, filters []Filter, now time.Time) (FilterSet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FilterSet{}, ErrPresetNameRequired
	}
	id, err := uuid.NewV7()
	if err != nil {
		return FilterSet{}, fmt.Errorf("generate preset id: %w", err)
	}
	return FilterSet{
		ID:        PresetIDPrefix + id.String(),
		Name:      name,
		Filters:   FilterList(CloneFilters(filters)),
		CreatedAt: now.UTC(),
	}, nil
}

// CapFilterSets keeps at most MaxPresets entries, dropping the oldest
// (front of the list) first.
func CapFilterSets(sets []FilterSet) []FilterSet {
	if len(sets) <= MaxPresets {
		return sets
	}
	return sets[len(sets)-MaxPresets:]
}

// EncodeFilterSets serializes presets for storage.
func EncodeFilterSets(sets []FilterSet) ([]byte, error) {
	if sets == nil {
		sets = []FilterSet{}
	}
	data, err := json.Marshal(sets)
	if err != nil {
		return nil, fmt.Errorf("encode presets: %w", err)
	}
	return data, nil
}

// DecodeFilterSets parses stored presets, dropping malformed entries one by
// one instead of failing the whole load. An entry is malformed when it is
// not an object, has no id, has no name, or has no filters array. A filter
// inside a well-formed entry that does not decode is skipped and the entry
// kept with its remaining filters. It returns the surviving entries, capped
// at MaxPresets, and how many entries were dropped. Data that is not a JSON
// array at all yields no entries.
func DecodeFilterSets(data []byte) ([]FilterSet, int) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, 0
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 1
	}

	sets := make([]FilterSet, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		fs, ok := decodeFilterSet(r)
		if !ok {
			dropped++
			continue
		}
		sets = append(sets, fs)
	}

	capped := CapFilterSets(sets)
	return capped, dropped + len(sets) - len(capped)
}

func decodeFilterSet(data json.RawMessage) (FilterSet, bool) {
	var entry struct {
		ID        string            `json:"id"`
		Name      string            `json:"name"`
		Filters   []json.RawMessage `json:"filters"`
		CreatedAt string            `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return FilterSet{}, false
	}
	if entry.ID == "" || entry.Name == "" || entry.Filters == nil {
		return FilterSet{}, false
	}

	filters := make(FilterList, 0, len(entry.Filters))
	for _, rf := range entry.Filters {
		f, err := UnmarshalFilter(rf)
		if err != nil {
			continue
		}
		filters = append(filters, f)
	}

	created, _ := time.Parse(time.RFC3339Nano, entry.CreatedAt)
	return FilterSet{
		ID:        entry.ID,
		Name:      entry.Name,
		Filters:   filters,
		CreatedAt: created,
	}, true
}

// Presets manages named filter snapshots on top of a PresetStore.
type Presets struct {
	store PresetStore
	now   func() time.Time
}

// NewPresets creates a preset service backed by store.
func NewPresets(store PresetStore) *Presets {
	return &Presets{store: store, now: time.Now}
}

// List returns the stored presets, oldest first.
func (p *Presets) List(ctx context.Context) ([]FilterSet, error) {
	sets, err := p.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	return sets, nil
}

// Save snapshots filters under name and appends it. When the list is full
// the oldest preset is dropped.
func (p *Presets) Save(ctx context.Context, name string, filters []Filter) (FilterSet, error) {
	fs, err := NewFilterSet(name, filters, p.now())
	if err != nil {
		return FilterSet{}, err
	}

	sets, err := p.List(ctx)
	if err != nil {
		return FilterSet{}, err
	}

	updated := CapFilterSets(append(append([]FilterSet(nil), sets...), fs))
	if err := p.store.Save(ctx, updated); err != nil {
		return FilterSet{}, fmt.Errorf("save presets: %w", err)
	}
	return fs, nil
}

// Get returns the preset with the given ID.
func (p *Presets) Get(ctx context.Context, id string) (FilterSet, error) {
	sets, err := p.List(ctx)
	if err != nil {
		return FilterSet{}, err
	}
	for _, fs := range sets {
		if fs.ID == id {
			return fs, nil
		}
	}
	return FilterSet{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
}

// Apply returns a fresh copy of the preset's filters, meant to replace the
// caller's active filter list rather than merge into it.
func (p *Presets) Apply(ctx context.Context, id string) ([]Filter, error) {
	fs, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return CloneFilters(fs.Filters), nil
}

// Delete removes the preset with the given ID.
func (p *Presets) Delete(ctx context.Context, id string) error {
	sets, err := p.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]FilterSet, 0, len(sets))
	for _, fs := range sets {
		if fs.ID != id {
			kept = append(kept, fs)
		}
	}
	if len(kept) == len(sets) {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}

	if err := p.store.Save(ctx, kept); err != nil {
		return fmt.Errorf("save presets: %w", err)
	}
	return nil
}
