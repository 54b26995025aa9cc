package presetstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Badger stores the document under one key of an embedded badger database.
type Badger struct {
	db  *badger.DB
	key []byte
}

// OpenBadger opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database.
func OpenBadger(dir, key string) (*Badger, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(badgerLogger{slog.Default().With("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &Badger{db: db, key: []byte(key)}, nil
}

func (b *Badger) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

func (b *Badger) Write(ctx context.Context, data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key, data)
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's internal logging through slog.
type badgerLogger struct {
	l *slog.Logger
}

func (g badgerLogger) Errorf(format string, args ...any) {
	g.l.Error(fmt.Sprintf(format, args...))
}

func (g badgerLogger) Warningf(format string, args ...any) {
	g.l.Warn(fmt.Sprintf(format, args...))
}

func (g badgerLogger) Infof(format string, args ...any) {
	g.l.Debug(fmt.Sprintf(format, args...))
}

func (g badgerLogger) Debugf(format string, args ...any) {
	g.l.Debug(fmt.Sprintf(format, args...))
}
