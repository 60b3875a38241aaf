// Package recycle manages the soft-delete lifecycle of archived entries.
//
// An entry moves Active -> Recycled on Delete, and Recycled -> Active on
// Restore or Recycled -> Gone on PermanentlyDelete and ClearAll. Every
// transition persists the affected collections and reports what happened as
// an Event; the manager never calls back into its caller.
package recycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/tempnotes/internal/codec"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/model"
	"github.com/rcliao/tempnotes/internal/store"
)

// EventKind names a lifecycle transition.
type EventKind string

const (
	Deleted  EventKind = "deleted"
	Restored EventKind = "restored"
	Purged   EventKind = "purged"
	Cleared  EventKind = "cleared"
)

// Event describes a completed transition. Index is the entry's position in
// the full recycle list (before removal for Restored and Purged); Count is the
// number of entries removed by Cleared.
type Event struct {
	Kind  EventKind
	Entry model.RecycledEntry
	Index int
	Count int
}

// Match is a recycle entry found by Filter, with its index in the full list.
type Match struct {
	Index int
	Entry model.RecycledEntry
}

// Manager owns the in-memory recycle list and keeps it in sync with storage.
type Manager struct {
	recycle store.RecycleStore
	archive store.ArchiveStore
	log     logging.Logger
	now     func() int64

	items  []model.RecycledEntry
	loaded bool
}

// New returns a manager persisting through the given stores.
func New(recycle store.RecycleStore, archive store.ArchiveStore, log logging.Logger) *Manager {
	return &Manager{recycle: recycle, archive: archive, log: log, now: codec.Now}
}

// Init loads the recycle list once; later calls are no-ops.
func (m *Manager) Init(ctx context.Context) {
	if m.loaded {
		return
	}
	m.items = m.recycle.LoadRecycleItems(ctx)
	m.loaded = true
}

// Reset drops the in-memory list, as after all data was cleared.
func (m *Manager) Reset() {
	m.items = nil
	m.loaded = true
}

// Items returns a copy of the full recycle list, newest deletion first.
func (m *Manager) Items() []model.RecycledEntry {
	out := make([]model.RecycledEntry, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of recycled entries.
func (m *Manager) Len() int { return len(m.items) }

// Delete moves the archived entry id to the front of the recycle list and
// returns the archive without it. The recycle list is persisted first; if that
// fails nothing changes. If persisting the archive then fails, the returned
// archive still omits the entry and the error is reported alongside it.
func (m *Manager) Delete(ctx context.Context, items []model.Entry, id string) ([]model.Entry, Event, error) {
	pos := -1
	for i, e := range items {
		if e.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return items, Event{}, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
	}

	rec := model.Recycle(items[pos], m.now())
	prev := m.items
	for _, r := range prev {
		if r.ID == rec.ID {
			rec.Entry = rec.Entry.Reassign(codec.NewID())
			break
		}
	}
	next := make([]model.RecycledEntry, 0, len(prev)+1)
	next = append(next, rec)
	next = append(next, prev...)
	if err := m.recycle.SaveRecycleItems(ctx, next); err != nil {
		return items, Event{}, err
	}
	m.items = next

	remaining := make([]model.Entry, 0, len(items)-1)
	remaining = append(remaining, items[:pos]...)
	remaining = append(remaining, items[pos+1:]...)
	ev := Event{Kind: Deleted, Entry: rec, Index: 0}
	if err := m.archive.SaveItems(ctx, remaining); err != nil {
		m.log.Warnf("entry %s recycled but archive not saved: %v", id, err)
		return remaining, ev, err
	}
	return remaining, ev, nil
}

// Restore removes the entry at index from the recycle list. The caller puts
// ev.Entry.Restore() back into the archive.
func (m *Manager) Restore(ctx context.Context, index int) (Event, error) {
	rec, err := m.remove(ctx, index)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: Restored, Entry: rec, Index: index}, nil
}

// PermanentlyDelete discards the entry at index. No other collection is
// touched.
func (m *Manager) PermanentlyDelete(ctx context.Context, index int) (Event, error) {
	rec, err := m.remove(ctx, index)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: Purged, Entry: rec, Index: index}, nil
}

// ClearAll empties the recycle list.
func (m *Manager) ClearAll(ctx context.Context) (Event, error) {
	if err := m.recycle.SaveRecycleItems(ctx, nil); err != nil {
		return Event{}, err
	}
	n := len(m.items)
	m.items = nil
	return Event{Kind: Cleared, Count: n}, nil
}

func (m *Manager) remove(ctx context.Context, index int) (model.RecycledEntry, error) {
	if index < 0 || index >= len(m.items) {
		return model.RecycledEntry{}, fmt.Errorf("%w: %d (recycle bin has %d)", errs.ErrIndexOutOfRange, index, len(m.items))
	}
	rec := m.items[index]
	next := make([]model.RecycledEntry, 0, len(m.items)-1)
	next = append(next, m.items[:index]...)
	next = append(next, m.items[index+1:]...)
	if err := m.recycle.SaveRecycleItems(ctx, next); err != nil {
		return model.RecycledEntry{}, err
	}
	m.items = next
	return rec, nil
}

// IndexOf returns the full-list index of the recycled entry id, or -1.
func (m *Manager) IndexOf(id string) int {
	for i, r := range m.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Filter returns the entries whose first line contains query, ignoring case.
// Each match carries its index in the full list, which is what Restore and
// PermanentlyDelete expect.
func (m *Manager) Filter(query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Match
	for i, r := range m.items {
		if q == "" || strings.Contains(strings.ToLower(codec.FirstLine(r.Content)), q) {
			out = append(out, Match{Index: i, Entry: r})
		}
	}
	return out
}
