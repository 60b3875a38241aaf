// Package store persists the scratchpad: a settings map, the archive of
// entries and the recycle bin, all in one embedded SQLite database.
package store

import (
	"context"

	"github.com/rcliao/tempnotes/internal/model"
)

// SettingsStore is a flat key/value map of scalar settings.
type SettingsStore interface {
	// ReadSetting returns the stored value and whether the key exists.
	ReadSetting(ctx context.Context, key string) (string, bool, error)

	// WriteSetting stores value under key, replacing any previous value.
	WriteSetting(ctx context.Context, key, value string) error

	// DeleteSetting removes key. Removing an absent key is not an error.
	DeleteSetting(ctx context.Context, key string) error

	// ListSettings returns every stored setting.
	ListSettings(ctx context.Context) (map[string]string, error)
}

// ArchiveStore holds the archived entries.
type ArchiveStore interface {
	// LoadItems returns the archive sorted by updatedAt descending. It never
	// fails: read errors are logged and yield an empty slice.
	LoadItems(ctx context.Context) []model.Entry

	// SaveItems atomically replaces the whole archive with items.
	SaveItems(ctx context.Context, items []model.Entry) error
}

// RecycleStore holds soft-deleted entries.
type RecycleStore interface {
	// LoadRecycleItems returns the recycle bin sorted by deletedAt descending.
	// Like LoadItems it never fails.
	LoadRecycleItems(ctx context.Context) []model.RecycledEntry

	// SaveRecycleItems atomically replaces the whole recycle bin.
	SaveRecycleItems(ctx context.Context, items []model.RecycledEntry) error
}

// Store defines the scratchpad storage interface.
type Store interface {
	SettingsStore
	ArchiveStore
	RecycleStore

	// ClearAll empties settings, archive and recycle bin in one transaction.
	ClearAll(ctx context.Context) error

	// Close closes the store.
	Close() error
}
