package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/tempnotes/internal/codec"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/model"
)

// SearchParams holds parameters for searching the archive.
type SearchParams struct {
	Query string
	Limit int
}

// SearchItems finds archived entries whose plaintext content contains the
// query, ignoring ASCII case. Encrypted entries never match.
func (s *SQLiteStore) SearchItems(ctx context.Context, p SearchParams) ([]model.Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT json FROM items
		WHERE COALESCE(json_extract(json, '$.encrypted'), 0) = 0
		  AND json_extract(json, '$.content') LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC
		LIMIT ?`, "%"+escapeLike(p.Query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", errs.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	now := codec.Now()
	results := []model.Entry{}
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("%w: search: %v", errs.ErrStorageUnavailable, err)
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(blob), &raw); err != nil {
			s.log.Warnf("skipping unreadable record: %v", err)
			continue
		}
		results = append(results, model.CoerceEntry(raw, now))
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
