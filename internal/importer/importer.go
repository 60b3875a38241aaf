// Package importer validates externally supplied JSON and merges it into the
// archive without duplicating entries.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rcliao/tempnotes/internal/codec"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/model"
)

// ExportVersion is the version written into export files.
const ExportVersion = 1

// Export is the on-disk export format.
type Export struct {
	Version    int           `json:"version"`
	ExportedAt string        `json:"exportedAt"`
	Draft      string        `json:"draft"`
	Items      []model.Entry `json:"items"`
}

// NewExport builds an export of the draft and archive stamped with at.
func NewExport(draft string, items []model.Entry, at time.Time) Export {
	if items == nil {
		items = []model.Entry{}
	}
	return Export{
		Version:    ExportVersion,
		ExportedAt: at.UTC().Format("2006-01-02T15:04:05.000Z"),
		Draft:      draft,
		Items:      items,
	}
}

// Result is normalized import data.
type Result struct {
	Draft string
	Items []model.Entry
	Valid bool
}

// Parse decodes data as JSON, keeping numbers exact.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", errs.ErrMalformedPayload)
	}
	return v, nil
}

// Normalize coerces decoded JSON into import data. Only a non-object value is
// invalid. Otherwise a non-string draft becomes "", a non-array items field
// becomes empty, non-object items are dropped, and items whose content is
// empty after coercion are discarded.
func Normalize(raw any, now int64) Result {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Result{Items: []model.Entry{}}
	}

	r := Result{Items: []model.Entry{}, Valid: true}
	if d, ok := obj["draft"].(string); ok {
		r.Draft = d
	}
	list, _ := obj["items"].([]any)
	for _, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		e := model.CoerceEntry(m, now)
		if e.Content == "" {
			continue
		}
		r.Items = append(r.Items, e)
	}
	return r
}

// Import parses and normalizes data. Data that is not a JSON object is
// rejected as a whole.
func Import(data []byte, now int64) (Result, error) {
	v, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	r := Normalize(v, now)
	if !r.Valid {
		return r, fmt.Errorf("%w: top level must be an object", errs.ErrValidation)
	}
	return r, nil
}

// Signature is the deduplication key: createdAt and content joined by '|'.
func Signature(e model.Entry) string {
	created := ""
	if e.CreatedAt != 0 {
		created = strconv.FormatInt(e.CreatedAt, 10)
	}
	return created + "|" + e.Content
}

// NewEntries returns the imported entries whose signature is not in
// existing. Duplicates within imported are all kept. A kept entry whose id is
// already taken by existing, by reserved or by an earlier kept entry gets a
// fresh id.
func NewEntries(existing, imported []model.Entry, reserved ...string) []model.Entry {
	sigs := make(map[string]struct{}, len(existing))
	ids := make(map[string]struct{}, len(existing)+len(imported)+len(reserved))
	for _, e := range existing {
		sigs[Signature(e)] = struct{}{}
		ids[e.ID] = struct{}{}
	}
	for _, id := range reserved {
		ids[id] = struct{}{}
	}

	var out []model.Entry
	for _, e := range imported {
		if _, dup := sigs[Signature(e)]; dup {
			continue
		}
		if _, taken := ids[e.ID]; taken || e.ID == "" {
			e = e.Reassign(codec.NewID())
		}
		ids[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Merge prepends the genuinely new imported entries to existing and sorts the
// result by updatedAt descending. Existing entries are never dropped or
// changed. Ids in reserved (the recycle bin) are never reused.
func Merge(existing, imported []model.Entry, reserved ...string) []model.Entry {
	added := NewEntries(existing, imported, reserved...)
	merged := make([]model.Entry, 0, len(added)+len(existing))
	merged = append(merged, added...)
	merged = append(merged, existing...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].UpdatedAt > merged[j].UpdatedAt })
	return merged
}
