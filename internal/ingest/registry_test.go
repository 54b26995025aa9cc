package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/docgrid/internal/core"
)

// fakeClock is advanced by tests to expire entries.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestRegistry(ttl time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(ttl)
	r.now = clock.now
	return r, clock
}

func TestRegistry_AddGet(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	u := &Upload{FileName: "a.csv", Kind: KindCSV, Tables: []core.Table{core.NewTable([][]string{{"h"}})}}
	id, err := r.Add(u)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id == "" || u.ID != id || u.CreatedAt.IsZero() {
		t.Errorf("Add did not stamp the upload: %+v", u)
	}

	got, err := r.Get(id)
	if err != nil || got != u {
		t.Errorf("Get() = %v, %v", got, err)
	}
	if _, err := r.Get("nope"); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("Get(unknown) err = %v", err)
	}
}

func TestRegistry_Expiry(t *testing.T) {
	r, clock := newTestRegistry(time.Hour)
	dir := t.TempDir()

	stored := filepath.Join(dir, "upload.pdf")
	if err := os.WriteFile(stored, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	old := &Upload{FileName: "old.pdf", Kind: KindPDF, path: stored}
	r.Add(old)
	clock.t = clock.t.Add(45 * time.Minute)
	fresh := &Upload{FileName: "new.csv", Kind: KindCSV}
	r.Add(fresh)

	clock.t = clock.t.Add(30 * time.Minute)

	if _, err := r.Get(old.ID); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("expired Get err = %v", err)
	}
	if _, err := r.Get(fresh.ID); err != nil {
		t.Errorf("fresh Get err = %v", err)
	}
	if got := r.List(); len(got) != 1 || got[0] != fresh {
		t.Errorf("List() = %v", got)
	}

	if n := r.Evict(); n != 1 {
		t.Errorf("Evict() = %d, want 1", n)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("stored file not removed: %v", err)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	u := &Upload{FileName: "a.csv"}
	r.Add(u)

	if err := r.Remove(u.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := r.Remove(u.ID); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("second Remove() err = %v", err)
	}
}

func TestRegistry_ListNewestFirst(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	a, b := &Upload{FileName: "a"}, &Upload{FileName: "b"}
	r.Add(a)
	time.Sleep(2 * time.Millisecond)
	r.Add(b)

	got := r.List()
	if len(got) != 2 || got[0] != b {
		t.Errorf("List() order = %v, %v", got[0].FileName, got[1].FileName)
	}
}

func TestRegistry_Janitor(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	r.Add(&Upload{FileName: "a.csv"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.StartJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for r.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not evict the expired upload")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("janitor did not stop on cancel")
	}
}
