package store

import (
	"context"
	"testing"

	"github.com/rcliao/tempnotes/internal/model"
)

func seedSearch(t *testing.T, s *SQLiteStore) {
	t.Helper()
	err := s.SaveItems(context.Background(), []model.Entry{
		{ID: "go", Content: "Go is a compiled language with goroutines", CreatedAt: 1, UpdatedAt: 3},
		{ID: "py", Content: "Python is an interpreted LANGUAGE", CreatedAt: 1, UpdatedAt: 2},
		{ID: "rs", Content: "Rust has a borrow checker", CreatedAt: 1, UpdatedAt: 1},
		{ID: "enc", Content: `{"v":2,"language":"x"}`, CreatedAt: 1, UpdatedAt: 4, Encrypted: true, EncryptionHint: "h"},
		{ID: "pct", Content: "100% done_now", CreatedAt: 1, UpdatedAt: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSearch_Basic(t *testing.T) {
	s := newTestStore(t)
	seedSearch(t, s)
	ctx := context.Background()

	results, err := s.SearchItems(ctx, SearchParams{Query: "language"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "go" || results[1].ID != "py" {
		t.Errorf("expected newest first, got %s, %s", results[0].ID, results[1].ID)
	}
}

func TestSearch_SkipsEncrypted(t *testing.T) {
	s := newTestStore(t)
	seedSearch(t, s)

	results, _ := s.SearchItems(context.Background(), SearchParams{Query: `"v":2`})
	if len(results) != 0 {
		t.Fatalf("expected encrypted entry never to match, got %+v", results)
	}
}

func TestSearch_LiteralWildcards(t *testing.T) {
	s := newTestStore(t)
	seedSearch(t, s)
	ctx := context.Background()

	results, _ := s.SearchItems(ctx, SearchParams{Query: "0%"})
	if len(results) != 1 || results[0].ID != "pct" {
		t.Fatalf("expected only pct, got %+v", results)
	}
	results, _ = s.SearchItems(ctx, SearchParams{Query: "e_n"})
	if len(results) != 1 || results[0].ID != "pct" {
		t.Fatalf("expected '_' to match literally, got %+v", results)
	}
}

func TestSearch_Limit(t *testing.T) {
	s := newTestStore(t)
	seedSearch(t, s)

	results, _ := s.SearchItems(context.Background(), SearchParams{Query: "", Limit: 2})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	seedSearch(t, s)
	ctx := context.Background()
	s.WriteSetting(ctx, model.KeyDraft, "hello world")
	s.SaveRecycleItems(ctx, []model.RecycledEntry{{Entry: model.Entry{ID: "r", Content: "gone", CreatedAt: 1, UpdatedAt: 1}, DeletedAt: 2}})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Items != 5 || st.EncryptedItems != 1 || st.RecycledItems != 1 || st.Settings != 1 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if st.DraftWords != 2 || st.DraftBytes != 22 {
		t.Errorf("unexpected draft metrics: %+v", st)
	}
	if st.UsageBytes <= st.DraftBytes || st.Usage == "" || st.DBSize == "" {
		t.Errorf("unexpected usage: %+v", st)
	}
}
