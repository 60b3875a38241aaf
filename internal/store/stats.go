package store

import (
	"context"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/rcliao/tempnotes/internal/codec"
	"github.com/rcliao/tempnotes/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string `json:"db_path"`
	DBSizeBytes    int64  `json:"db_size_bytes"`
	DBSize         string `json:"db_size"`
	Items          int    `json:"items"`
	EncryptedItems int    `json:"encrypted_items"`
	RecycledItems  int    `json:"recycled_items"`
	Settings       int    `json:"settings"`
	DraftWords     int    `json:"draft_words"`
	DraftBytes     int    `json:"draft_bytes"`
	UsageBytes     int    `json:"usage_bytes"`
	Usage          string `json:"usage"`
	NewestUpdate   string `json:"newest_update,omitempty"`
}

// Stats returns database statistics. Usage is the estimated footprint of
// the draft, archive, recycle bin and display settings.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: s.path}

	settings, err := s.ListSettings(ctx)
	if err != nil {
		return st, err
	}
	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}
	st.DBSize = humanize.IBytes(uint64(st.DBSizeBytes))

	items := s.LoadItems(ctx)
	recycle := s.LoadRecycleItems(ctx)
	st.Items = len(items)
	st.RecycledItems = len(recycle)
	st.Settings = len(settings)
	for _, e := range items {
		if e.Encrypted {
			st.EncryptedItems++
		}
	}
	if len(items) > 0 {
		st.NewestUpdate = humanize.Time(codec.Time(items[0].UpdatedAt))
	}

	kv := NewSettings(s, s.log)
	draft := settings[model.KeyDraft]
	st.DraftWords = codec.WordCount(draft)
	st.DraftBytes = codec.TextBytes(draft)
	st.UsageBytes = model.Usage{
		Draft:   draft,
		Items:   items,
		Recycle: recycle,
		Settings: model.UsageSettings{
			Theme:    kv.LoadTheme(ctx),
			FontSize: kv.LoadFontSize(ctx),
		},
	}.Bytes()
	st.Usage = humanize.IBytes(uint64(st.UsageBytes))
	return st, nil
}
