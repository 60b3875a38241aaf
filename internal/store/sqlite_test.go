package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"), logging.Discard())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := []model.Entry{
		{ID: "a", Content: "old", CreatedAt: 1000, UpdatedAt: 1000},
		{ID: "b", Content: "new", CreatedAt: 1500, UpdatedAt: 3000},
		{ID: "c", Content: "secret", CreatedAt: 1200, UpdatedAt: 2000, Encrypted: true, EncryptionHint: "pet"},
	}
	if err := s.SaveItems(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.LoadItems(ctx)
	want := []model.Entry{in[1], in[2], in[0]}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveItemsReplacesCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SaveItems(ctx, []model.Entry{
		{ID: "a", Content: "1", CreatedAt: 1, UpdatedAt: 1},
		{ID: "b", Content: "2", CreatedAt: 2, UpdatedAt: 2},
	})
	if err := s.SaveItems(ctx, []model.Entry{{ID: "c", Content: "3", CreatedAt: 3, UpdatedAt: 3}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.LoadItems(ctx)
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("expected only c, got %+v", got)
	}

	if err := s.SaveItems(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if got := s.LoadItems(ctx); len(got) != 0 {
		t.Errorf("expected empty archive, got %d", len(got))
	}
}

func TestSaveItemsFailureKeepsPriorCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	prior := []model.Entry{
		{ID: "a", Content: "1", CreatedAt: 1, UpdatedAt: 1},
		{ID: "b", Content: "2", CreatedAt: 2, UpdatedAt: 2},
	}
	if err := s.SaveItems(ctx, prior); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The duplicate id fails the second insert after the table was cleared.
	err := s.SaveItems(ctx, []model.Entry{
		{ID: "x", Content: "new", CreatedAt: 5, UpdatedAt: 5},
		{ID: "x", Content: "dup", CreatedAt: 6, UpdatedAt: 6},
	})
	if !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}

	got := s.LoadItems(ctx)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected prior archive intact, got %+v", got)
	}
}

func TestSaveAndLoadRecycleItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := []model.RecycledEntry{
		{Entry: model.Entry{ID: "a", Content: "x", CreatedAt: 1, UpdatedAt: 1}, DeletedAt: 10},
		{Entry: model.Entry{ID: "b", Content: "y", CreatedAt: 1, UpdatedAt: 1}, DeletedAt: 30},
		{Entry: model.Entry{ID: "c", Content: "z", CreatedAt: 1, UpdatedAt: 1}, DeletedAt: 20},
	}
	if err := s.SaveRecycleItems(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := s.LoadRecycleItems(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	for i, id := range []string{"b", "c", "a"} {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if got[0] != in[1] {
		t.Errorf("fields not preserved: %+v", got[0])
	}

	// Archive is untouched by recycle writes.
	if items := s.LoadItems(ctx); len(items) != 0 {
		t.Errorf("expected empty archive, got %d", len(items))
	}
}

func TestLoadItemsCoercesRecords(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	s := newTestStore(t)
	s.log = logging.Logger{Out: &logs, Err: &logs}

	db, err := s.conn(ctx)
	if err != nil {
		t.Fatal(err)
	}
	db.Exec(`INSERT INTO items (id, updated_at, json) VALUES ('r1', 0, '{"content":"no id","createdAt":500}')`)
	db.Exec(`INSERT INTO items (id, updated_at, json) VALUES ('r2', 0, 'not json')`)
	db.Exec(`INSERT INTO items (id, updated_at, json) VALUES ('r3', 0, '{"id":"k","content":7,"createdAt":"900","updatedAt":100}')`)

	got := s.LoadItems(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 readable records, got %d: %+v", len(got), got)
	}
	if got[0].ID != "k" || got[0].Content != "7" || got[0].CreatedAt != 900 || got[0].UpdatedAt != 900 {
		t.Errorf("unexpected coercion: %+v", got[0])
	}
	if got[1].ID == "" || got[1].CreatedAt != 500 || got[1].UpdatedAt != 500 {
		t.Errorf("expected generated id and defaulted timestamps, got %+v", got[1])
	}
	if !bytes.Contains(logs.Bytes(), []byte("skipping unreadable record")) {
		t.Errorf("expected a diagnostic, got %q", logs.String())
	}
}

func TestLoadNeverFails(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "x.db"), logging.Discard())
	s.Close()

	if got := s.LoadItems(ctx); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if got := s.LoadRecycleItems(ctx); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if err := s.SaveItems(ctx, nil); !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Errorf("expected write to fail with ErrStorageUnavailable, got %v", err)
	}
}

func TestUnopenableDatabase(t *testing.T) {
	dir := t.TempDir()
	// A directory where the database file should be.
	dbPath := filepath.Join(dir, "db")
	if err := os.Mkdir(dbPath, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSQLiteStore(dbPath, logging.Discard()); !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.ReadSetting(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected absent, got ok=%v err=%v", ok, err)
	}
	s.WriteSetting(ctx, "k", "v1")
	s.WriteSetting(ctx, "k", "v2")
	v, ok, err := s.ReadSetting(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("expected v2, got %q ok=%v err=%v", v, ok, err)
	}

	all, err := s.ListSettings(ctx)
	if err != nil || len(all) != 1 || all["k"] != "v2" {
		t.Fatalf("unexpected settings %v, %v", all, err)
	}

	if err := s.DeleteSetting(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSetting(ctx, "k"); err != nil {
		t.Fatalf("deleting absent key: %v", err)
	}
	if _, ok, _ := s.ReadSetting(ctx, "k"); ok {
		t.Error("expected key removed")
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.WriteSetting(ctx, model.KeyDraft, "draft")
	s.SaveItems(ctx, []model.Entry{{ID: "a", Content: "x", CreatedAt: 1, UpdatedAt: 1}})
	s.SaveRecycleItems(ctx, []model.RecycledEntry{{Entry: model.Entry{ID: "b", Content: "y", CreatedAt: 1, UpdatedAt: 1}, DeletedAt: 2}})

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if all, _ := s.ListSettings(ctx); len(all) != 0 {
		t.Errorf("expected no settings, got %v", all)
	}
	if got := s.LoadItems(ctx); len(got) != 0 {
		t.Errorf("expected empty archive, got %d", len(got))
	}
	if got := s.LoadRecycleItems(ctx); len(got) != 0 {
		t.Errorf("expected empty recycle bin, got %d", len(got))
	}
}

func TestConcurrentFirstUseOpensOnce(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "once.db"), logging.Discard())
	t.Cleanup(func() { s.Close() })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.conn(ctx); err != nil {
				t.Errorf("conn: %v", err)
			}
		}()
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opens != 1 {
		t.Errorf("expected one open, got %d", s.opens)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath, logging.Discard())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.WriteSetting(context.Background(), "k", "v")
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestSaveRejectsUnloadableIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	prior := []model.Entry{{ID: "a", Content: "kept", CreatedAt: 1, UpdatedAt: 1}}
	if err := s.SaveItems(ctx, prior); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, id := range []string{"a|b", "", "  "} {
		err := s.SaveItems(ctx, []model.Entry{{ID: id, Content: "x", CreatedAt: 2, UpdatedAt: 2}})
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("SaveItems(%q): expected ErrValidation, got %v", id, err)
		}
		err = s.SaveRecycleItems(ctx, []model.RecycledEntry{{Entry: model.Entry{ID: id, Content: "x"}, DeletedAt: 3}})
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("SaveRecycleItems(%q): expected ErrValidation, got %v", id, err)
		}
	}

	// Ids that pass are stable across loads.
	for i := 0; i < 2; i++ {
		got := s.LoadItems(ctx)
		if len(got) != 1 || got[0] != prior[0] {
			t.Fatalf("load %d: expected prior archive, got %+v", i, got)
		}
	}
}

func TestClosedStoreErrors(t *testing.T) {
	ctx := context.Background()

	closed := New(filepath.Join(t.TempDir(), "closed.db"), logging.Discard())
	closed.Close()
	_, errAfter := closed.conn(ctx)

	// Close landing while the file is being opened.
	racing := New(filepath.Join(t.TempDir(), "racing.db"), logging.Discard())
	racing.mu.Lock()
	racing.done = true
	racing.mu.Unlock()
	_, errDuring := racing.openShared()

	for _, err := range []error{errAfter, errDuring} {
		if !errors.Is(err, errs.ErrStorageUnavailable) {
			t.Errorf("expected ErrStorageUnavailable, got %v", err)
		}
	}
	if errAfter.Error() != errDuring.Error() {
		t.Errorf("closed store errors differ: %q vs %q", errAfter, errDuring)
	}
	if racing.opens != 0 || racing.db != nil {
		t.Error("a closed store must not keep the handle")
	}
}
