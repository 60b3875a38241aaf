package model

import "testing"

func TestCoerceEntryWellFormed(t *testing.T) {
	raw := map[string]any{
		"id":        "a",
		"content":   "hello",
		"createdAt": float64(1000),
		"updatedAt": float64(2000),
	}
	got := CoerceEntry(raw, 5000)
	want := Entry{ID: "a", Content: "hello", CreatedAt: 1000, UpdatedAt: 2000}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCoerceEntryDefaults(t *testing.T) {
	got := CoerceEntry(map[string]any{"content": float64(42)}, 5000)
	if got.ID == "" {
		t.Error("expected generated id")
	}
	if got.Content != "42" {
		t.Errorf("expected content '42', got %q", got.Content)
	}
	if got.CreatedAt != 5000 || got.UpdatedAt != 5000 {
		t.Errorf("expected timestamps defaulted to now, got %d/%d", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCoerceEntryUpdatedFallsBackToCreated(t *testing.T) {
	got := CoerceEntry(map[string]any{"id": "x", "content": "c", "createdAt": "1500"}, 9000)
	if got.CreatedAt != 1500 || got.UpdatedAt != 1500 {
		t.Errorf("got %d/%d", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCoerceEntryUpdatedNeverBeforeCreated(t *testing.T) {
	got := CoerceEntry(map[string]any{"id": "x", "createdAt": float64(3000), "updatedAt": float64(1000)}, 9000)
	if got.UpdatedAt != 3000 {
		t.Errorf("expected updatedAt raised to 3000, got %d", got.UpdatedAt)
	}
}

func TestCoerceEntryInvalidID(t *testing.T) {
	got := CoerceEntry(map[string]any{"id": float64(7), "content": "c"}, 1)
	if got.ID == "7" || got.ID == "" {
		t.Errorf("expected regenerated id, got %q", got.ID)
	}
}

func TestCoerceEntryEncryptedHint(t *testing.T) {
	got := CoerceEntry(map[string]any{"id": "x", "content": "{}", "encrypted": true}, 1)
	if !got.Encrypted || got.EncryptionHint != NoHint {
		t.Errorf("got %+v", got)
	}
	got = CoerceEntry(map[string]any{"id": "x", "encrypted": "yes", "encryptionHint": "h"}, 1)
	if got.Encrypted || got.EncryptionHint != "" {
		t.Errorf("non-bool encrypted flag must be ignored, got %+v", got)
	}
}

func TestCoerceRecycled(t *testing.T) {
	got := CoerceRecycled(map[string]any{"id": "x", "content": "c", "createdAt": float64(10), "deletedAt": float64(99)}, 500)
	if got.DeletedAt != 99 || got.ID != "x" {
		t.Errorf("got %+v", got)
	}
	got = CoerceRecycled(map[string]any{"id": "x"}, 500)
	if got.DeletedAt != 500 {
		t.Errorf("expected deletedAt default 500, got %d", got.DeletedAt)
	}
}

func TestRecycleRestore(t *testing.T) {
	e := Entry{ID: "a", Content: "c", CreatedAt: 1, UpdatedAt: 10}
	r := Recycle(e, 5)
	if r.DeletedAt != 10 {
		t.Errorf("deletedAt must not precede updatedAt, got %d", r.DeletedAt)
	}
	if r.Restore() != e {
		t.Errorf("restore mismatch: %+v", r.Restore())
	}
}

func TestCoerceEntryRejectsSeparatorInID(t *testing.T) {
	got := CoerceEntry(map[string]any{"id": "a|b", "content": "c"}, 1)
	if got.ID == "a|b" {
		t.Error("expected id containing '|' to be regenerated")
	}
}

func TestUsageBytes(t *testing.T) {
	empty := Usage{Settings: UsageSettings{Theme: "dark", FontSize: 16}}
	want := len(`{"draft":"","items":[],"recycle":[],"settings":{"theme":"dark","fontSize":16}}`) * 2
	if got := empty.Bytes(); got != want {
		t.Errorf("empty usage: got %d, want %d", got, want)
	}
	withDraft := empty
	withDraft.Draft = "日本"
	if got := withDraft.Bytes(); got != want+4 {
		t.Errorf("draft usage: got %d, want %d", got, want+4)
	}
}

func TestReassign(t *testing.T) {
	plain := Entry{ID: "a", Content: "x"}.Reassign("b")
	if plain.ID != "b" || plain.SealedID != "" || plain.EnvelopeID() != "b" {
		t.Errorf("plain reassign: %+v", plain)
	}

	enc := Entry{ID: "a", Content: "{}", Encrypted: true}.Reassign("b").Reassign("c")
	if enc.ID != "c" || enc.SealedID != "a" || enc.EnvelopeID() != "a" {
		t.Errorf("encrypted reassign must keep the first id: %+v", enc)
	}
}

func TestCoerceEntrySealedID(t *testing.T) {
	raw := map[string]any{"id": "b", "content": "{}", "encrypted": true, "encryptionHint": "h", "sealedId": "a"}
	if got := CoerceEntry(raw, 1); got.SealedID != "a" {
		t.Errorf("sealedId dropped: %+v", got)
	}

	raw["encrypted"] = false
	if got := CoerceEntry(raw, 1); got.SealedID != "" {
		t.Errorf("plain entry kept sealedId: %+v", got)
	}
}
