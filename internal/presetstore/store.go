// Package presetstore persists saved filter sets.
//
// Every backend stores the whole preset list as one JSON document under a
// single key, so a save replaces the list and the last write wins. Store
// wraps a backend and implements core.PresetStore: it decodes tolerantly,
// dropping malformed entries one by one, and caps the list on both read and
// write.
//
// Backends:
//
//	memory    process-local, for tests and throwaway sessions
//	file      a JSON file replaced atomically on every save
//	badger    an embedded key-value store (github.com/dgraph-io/badger/v4)
//	sqlite    an embedded SQL database (modernc.org/sqlite)
//	postgres  a shared PostgreSQL database (github.com/jackc/pgx/v5)
package presetstore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/docgrid/internal/config"
	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/logging"
)

// DefaultKey names the slot holding the preset list.
const DefaultKey = "filterSets"

// Blob is a single-slot byte store.
type Blob interface {
	// Read returns the stored document, or nil when nothing was saved yet.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Store implements core.PresetStore on top of a Blob.
type Store struct {
	blob   Blob
	driver string
}

var _ core.PresetStore = (*Store)(nil)

// New wraps blob. driver is used only for logging.
func New(blob Blob, driver string) *Store {
	return &Store{blob: blob, driver: driver}
}

// Load returns the stored presets. Malformed entries are dropped and logged;
// they never fail the load.
func (s *Store) Load(ctx context.Context) ([]core.FilterSet, error) {
	data, err := s.blob.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s preset store: %w", s.driver, err)
	}

	sets, dropped := core.DecodeFilterSets(data)
	if dropped > 0 {
		logging.FromContext(ctx).Warn("dropped malformed presets",
			"driver", s.driver,
			"dropped", dropped,
			"kept", len(sets),
		)
	}
	if sets == nil {
		sets = []core.FilterSet{}
	}
	return sets, nil
}

// Save replaces the stored presets, keeping only the newest core.MaxPresets.
func (s *Store) Save(ctx context.Context, sets []core.FilterSet) error {
	data, err := core.EncodeFilterSets(core.CapFilterSets(sets))
	if err != nil {
		return err
	}
	if err := s.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s preset store: %w", s.driver, err)
	}
	logging.FromContext(ctx).Debug("presets saved", "driver", s.driver, "count", len(sets))
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.blob.Close()
}

// Driver reports which backend is in use.
func (s *Store) Driver() string {
	return s.driver
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.PresetsConfig) (*Store, error) {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	driver := strings.ToLower(cfg.Driver)

	var (
		blob Blob
		err  error
	)
	switch driver {
	case "memory":
		blob = NewMemory()
	case "file":
		blob, err = NewFile(pathOr(cfg.Path, "presets.json"))
	case "badger":
		blob, err = OpenBadger(pathOr(cfg.Path, "presets.badger"), key)
	case "sqlite":
		blob, err = OpenSQLite(ctx, pathOr(cfg.Path, "presets.db"), key)
	case "postgres":
		blob, err = OpenPostgres(ctx, cfg, key)
	default:
		return nil, fmt.Errorf("unknown preset driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s preset store: %w", driver, err)
	}

	slog.Info("preset store ready", "driver", driver)
	return New(blob, driver), nil
}

func pathOr(path, name string) string {
	if path != "" {
		return path
	}
	return filepath.Join("data", name)
}
