package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rcliao/tempnotes/internal/codec"
)

// CoerceEntry turns an arbitrary decoded JSON record into a well-formed Entry.
// A missing or non-string id is regenerated, missing timestamps default to
// now, content is coerced to a string, and updatedAt is raised to createdAt
// when it would precede it.
func CoerceEntry(raw map[string]any, now int64) Entry {
	e := Entry{
		ID:      coerceID(raw["id"]),
		Content: coerceString(raw["content"]),
	}
	e.CreatedAt = coerceMillis(raw["createdAt"], now)
	e.UpdatedAt = coerceMillis(raw["updatedAt"], e.CreatedAt)
	if e.UpdatedAt < e.CreatedAt {
		e.UpdatedAt = e.CreatedAt
	}
	if enc, ok := raw["encrypted"].(bool); ok && enc {
		e.Encrypted = true
		e.EncryptionHint = strings.TrimSpace(coerceString(raw["encryptionHint"]))
		if e.EncryptionHint == "" {
			e.EncryptionHint = NoHint
		}
		if s, ok := raw["sealedId"].(string); ok && ValidID(s) && s != e.ID {
			e.SealedID = s
		}
	}
	return e
}

// CoerceRecycled is CoerceEntry plus a deletedAt stamp defaulting to now.
func CoerceRecycled(raw map[string]any, now int64) RecycledEntry {
	e := CoerceEntry(raw, now)
	return RecycledEntry{Entry: e, DeletedAt: coerceMillis(raw["deletedAt"], now)}
}

// ValidID reports whether id can be stored and later sealed. '|' separates
// the id from the plaintext inside an encryption envelope.
func ValidID(id string) bool {
	return strings.TrimSpace(id) != "" && !strings.Contains(id, "|")
}

func coerceID(v any) string {
	if s, ok := v.(string); ok && ValidID(s) {
		return s
	}
	return codec.NewID()
}

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// coerceMillis accepts numbers and numeric strings; zero, negative or
// non-numeric values fall back to def.
func coerceMillis(v any, def int64) int64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return def
	}
	return int64(f)
}
