package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"

	"github.com/rcliao/tempnotes/internal/codec"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/model"
)

var errClosed = fmt.Errorf("%w: store is closed", errs.ErrStorageUnavailable)

// SQLiteStore implements Store using SQLite. The database is opened on first
// use and the handle is shared by every later call.
type SQLiteStore struct {
	path string
	log  logging.Logger

	open  singleflight.Group
	mu    sync.Mutex
	db    *sql.DB
	opens int
	done  bool
}

// New returns a store for the database at dbPath without opening it.
func New(dbPath string, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{path: dbPath, log: log}
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, log logging.Logger) (*SQLiteStore, error) {
	s := New(dbPath, log)
	if _, err := s.conn(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// conn returns the shared handle, opening it if needed. Concurrent first
// callers wait on the same open; a failed open is not cached.
func (s *SQLiteStore) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	db, done := s.db, s.done
	s.mu.Unlock()
	if done {
		return nil, errClosed
	}
	if db != nil {
		return db, nil
	}

	ch := s.open.DoChan("open", s.openShared)

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", errs.ErrStorageUnavailable, ctx.Err())
	case r := <-ch:
		if errors.Is(r.Err, errClosed) {
			return nil, r.Err
		}
		if r.Err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, r.Err)
		}
		return r.Val.(*sql.DB), nil
	}
}

// openShared runs once per concurrent group of first callers. A Close that
// lands while the file is being opened wins.
func (s *SQLiteStore) openShared() (any, error) {
	s.mu.Lock()
	if s.db != nil {
		db := s.db
		s.mu.Unlock()
		return db, nil
	}
	s.mu.Unlock()

	db, err := s.openDB()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		db.Close()
		return nil, errClosed
	}
	s.db = db
	s.opens++
	s.log.Debugf("opened %s", s.path)
	return db, nil
}

func (s *SQLiteStore) openDB() (*sql.DB, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS items (
		id         TEXT PRIMARY KEY,
		updated_at INTEGER NOT NULL,
		json       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_updated ON items(updated_at DESC);

	CREATE TABLE IF NOT EXISTS recycle (
		id         TEXT PRIMARY KEY,
		deleted_at INTEGER NOT NULL,
		json       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recycle_deleted ON recycle(deleted_at DESC);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) ReadSetting(ctx context.Context, key string) (string, bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return "", false, err
	}
	var v string
	err = db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read setting %s: %v", errs.ErrStorageUnavailable, key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) WriteSetting(ctx context.Context, key, value string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%w: write setting %s: %v", errs.ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteSetting(ctx context.Context, key string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: delete setting %s: %v", errs.ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *SQLiteStore) ListSettings(ctx context.Context) (map[string]string, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: list settings: %v", errs.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("%w: list settings: %v", errs.ErrStorageUnavailable, err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LoadItems(ctx context.Context) []model.Entry {
	now := codec.Now()
	items := []model.Entry{}
	err := s.loadJSON(ctx, `SELECT json FROM items ORDER BY updated_at DESC`, func(raw map[string]any) {
		items = append(items, model.CoerceEntry(raw, now))
	})
	if err != nil {
		s.log.Errorf("load items: %v", err)
		return []model.Entry{}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].UpdatedAt > items[j].UpdatedAt })
	return items
}

func (s *SQLiteStore) LoadRecycleItems(ctx context.Context) []model.RecycledEntry {
	now := codec.Now()
	items := []model.RecycledEntry{}
	err := s.loadJSON(ctx, `SELECT json FROM recycle ORDER BY deleted_at DESC`, func(raw map[string]any) {
		items = append(items, model.CoerceRecycled(raw, now))
	})
	if err != nil {
		s.log.Errorf("load recycle items: %v", err)
		return []model.RecycledEntry{}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DeletedAt > items[j].DeletedAt })
	return items
}

// loadJSON decodes the json column of every row returned by query. Rows that
// are not JSON objects are skipped with a warning.
func (s *SQLiteStore) loadJSON(ctx context.Context, query string, fn func(map[string]any)) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(blob)))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil || raw == nil {
			s.log.Warnf("skipping unreadable record: %v", err)
			continue
		}
		fn(raw)
	}
	return rows.Err()
}

// SaveItems replaces the archive in one transaction: every row is deleted and
// the given entries are inserted. Any failure rolls back to the prior archive.
func (s *SQLiteStore) SaveItems(ctx context.Context, items []model.Entry) error {
	rows := make([]row, len(items))
	for i, e := range items {
		if !model.ValidID(e.ID) {
			return fmt.Errorf("%w: save items: invalid id %q", errs.ErrValidation, e.ID)
		}
		rows[i] = row{id: e.ID, order: e.UpdatedAt, value: e}
	}
	if err := s.replace(ctx, "items", "updated_at", rows); err != nil {
		return fmt.Errorf("%w: save items: %w", errs.ErrStorageUnavailable, err)
	}
	return nil
}

// SaveRecycleItems replaces the recycle bin the same way SaveItems replaces
// the archive.
func (s *SQLiteStore) SaveRecycleItems(ctx context.Context, items []model.RecycledEntry) error {
	rows := make([]row, len(items))
	for i, e := range items {
		if !model.ValidID(e.ID) {
			return fmt.Errorf("%w: save recycle items: invalid id %q", errs.ErrValidation, e.ID)
		}
		rows[i] = row{id: e.ID, order: e.DeletedAt, value: e}
	}
	if err := s.replace(ctx, "recycle", "deleted_at", rows); err != nil {
		return fmt.Errorf("%w: save recycle items: %w", errs.ErrStorageUnavailable, err)
	}
	return nil
}

type row struct {
	id    string
	order int64
	value any
}

func (s *SQLiteStore) replace(ctx context.Context, table, orderCol string, rows []row) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (id, `+orderCol+`, json) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		b, err := json.Marshal(r.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.id, err)
		}
		if _, err := stmt.ExecContext(ctx, r.id, r.order, string(b)); err != nil {
			return fmt.Errorf("insert %s: %w", r.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debugf("saved %d rows to %s", len(rows), table)
	return nil
}

func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: clear all: %v", errs.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"settings", "items", "recycle"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("%w: clear %s: %v", errs.ErrStorageUnavailable, table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: clear all: %v", errs.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
