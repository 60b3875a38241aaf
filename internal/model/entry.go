// Package model defines the core scratchpad data types.
package model

// Entry is a saved note in the archive.
type Entry struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
	Encrypted      bool   `json:"encrypted,omitempty"`
	EncryptionHint string `json:"encryptionHint,omitempty"`
	// SealedID is the id bound inside the envelope when an encrypted entry
	// has since been given a new id.
	SealedID string `json:"sealedId,omitempty"`
}

// Reassign returns e under a new id. An encrypted entry keeps the id its
// envelope was sealed under so it can still be opened.
func (e Entry) Reassign(id string) Entry {
	if e.Encrypted && e.SealedID == "" {
		e.SealedID = e.ID
	}
	e.ID = id
	return e
}

// EnvelopeID is the id bound inside e's envelope.
func (e Entry) EnvelopeID() string {
	if e.SealedID != "" {
		return e.SealedID
	}
	return e.ID
}

// RecycledEntry is an Entry moved to the recycle bin.
type RecycledEntry struct {
	Entry
	DeletedAt int64 `json:"deletedAt"`
}

// Recycle stamps e as deleted at the given time.
// deletedAt never precedes the entry's last update.
func Recycle(e Entry, now int64) RecycledEntry {
	if now < e.UpdatedAt {
		now = e.UpdatedAt
	}
	return RecycledEntry{Entry: e, DeletedAt: now}
}

// Restore drops the deletion stamp.
func (r RecycledEntry) Restore() Entry {
	return r.Entry
}

// Setting keys. These are persisted; never rename them.
const (
	KeyDraft       = "tempnotes:draft:v1"
	KeyDraftItemID = "tempnotes:draft-item-id:v1"
	KeyTheme       = "tempnotes:theme:v1"
	KeyFontSize    = "font_size"
	KeyLLMBaseURL  = "llm_base_url"
	KeyLLMAPIKey   = "llm_api_key"
	KeyLLMModel    = "llm_model"
)

// Themes.
const (
	ThemeDark    = "dark"
	ThemeLight   = "light"
	DefaultTheme = ThemeDark
)

// Font size bounds in px.
const (
	MinFontSize     = 12
	MaxFontSize     = 20
	DefaultFontSize = 16
)

// NoHint is recorded for encrypted entries that arrive without a hint.
const NoHint = "no hint"

// ValidTheme reports whether t is a known theme.
func ValidTheme(t string) bool {
	return t == ThemeDark || t == ThemeLight
}

// ValidFontSize reports whether px is within the supported range.
func ValidFontSize(px int) bool {
	return px >= MinFontSize && px <= MaxFontSize
}

// LLMSettings holds the optional language-model endpoint configuration.
type LLMSettings struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}
