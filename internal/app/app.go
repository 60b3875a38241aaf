// Package app is the scratchpad controller. It keeps an in-memory mirror of
// the draft, the archive and the recycle bin, and re-syncs storage after
// every mutation. Presentation layers call it and render what it returns.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/tempnotes/internal/codec"
	"github.com/rcliao/tempnotes/internal/crypto"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/importer"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/model"
	"github.com/rcliao/tempnotes/internal/recycle"
	"github.com/rcliao/tempnotes/internal/store"
)

// Options configures an App.
type Options struct {
	Store         store.Store
	Log           logging.Logger
	Sealer        *crypto.Sealer
	AutosaveDelay time.Duration
}

// App is the scratchpad controller. It is not safe for concurrent use; the
// autosaver is the only part that runs in the background.
type App struct {
	store    store.Store
	settings *store.Settings
	recycle  *recycle.Manager
	autosave *Autosaver
	sealer   *crypto.Sealer
	log      logging.Logger
	now      func() int64

	items   []model.Entry
	draft   string
	boundID string
}

// New returns an App. Call Init before use and Close when done.
func New(opts Options) *App {
	sealer := opts.Sealer
	if sealer == nil {
		sealer, _ = crypto.NewSealer(crypto.DefaultParams())
	}
	a := &App{
		store:    opts.Store,
		settings: store.NewSettings(opts.Store, opts.Log),
		recycle:  recycle.New(opts.Store, opts.Store, opts.Log),
		sealer:   sealer,
		log:      opts.Log,
		now:      codec.Now,
		items:    []model.Entry{},
	}
	a.autosave = NewAutosaver(opts.AutosaveDelay, a.settings.SaveDraft, opts.Log)
	return a
}

// Init loads the draft, its binding, the archive and the recycle bin.
func (a *App) Init(ctx context.Context) {
	a.draft = a.settings.LoadDraft(ctx)
	a.boundID = a.settings.LoadDraftItemID(ctx)
	a.items = a.store.LoadItems(ctx)
	a.recycle.Init(ctx)
	a.log.Debugf("loaded %d items, %d recycled", len(a.items), a.recycle.Len())
}

// Close writes any pending draft.
func (a *App) Close(ctx context.Context) error {
	return a.autosave.Flush(ctx)
}

// Draft returns the current draft text.
func (a *App) Draft() string { return a.draft }

// BoundID returns the id of the entry the draft will update on archive, or "".
func (a *App) BoundID() string { return a.boundID }

// SaveState reports the draft's persistence state.
func (a *App) SaveState() (SaveState, error) { return a.autosave.State() }

// SetDraft replaces the draft and schedules a debounced save. A blank draft
// cuts the binding, so the next archive creates a new entry.
func (a *App) SetDraft(ctx context.Context, text string) {
	a.draft = text
	if strings.TrimSpace(text) == "" {
		a.unbind(ctx)
	}
	a.autosave.Schedule(text)
}

// FlushDraft writes the pending draft immediately.
func (a *App) FlushDraft(ctx context.Context) error {
	return a.autosave.Flush(ctx)
}

// ClearDraft empties the draft, cuts the binding and saves at once.
func (a *App) ClearDraft(ctx context.Context) error {
	a.draft = ""
	a.unbind(ctx)
	a.autosave.Schedule("")
	return a.autosave.Flush(ctx)
}

func (a *App) bind(ctx context.Context, id string) {
	a.boundID = id
	if err := a.settings.SaveDraftItemID(ctx, id); err != nil {
		a.log.Warnf("save draft binding: %v", err)
	}
}

func (a *App) unbind(ctx context.Context) {
	if a.boundID == "" {
		return
	}
	a.bind(ctx, "")
}

// Items returns a copy of the archive, newest first.
func (a *App) Items() []model.Entry {
	out := make([]model.Entry, len(a.items))
	copy(out, a.items)
	return out
}

// Item returns the archived entry id.
func (a *App) Item(id string) (model.Entry, error) {
	if i := a.indexOf(id); i >= 0 {
		return a.items[i], nil
	}
	return model.Entry{}, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
}

func (a *App) indexOf(id string) int {
	for i, e := range a.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Search filters the archive by a case-insensitive substring of the content.
// Encrypted entries never match.
func (a *App) Search(query string) []model.Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Entry
	for _, e := range a.items {
		if e.Encrypted {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out
}

func (a *App) sortItems() {
	sort.SliceStable(a.items, func(i, j int) bool { return a.items[i].UpdatedAt > a.items[j].UpdatedAt })
}

// persist writes the archive mirror. On failure the mirror stays as it is and
// remains the source of truth until the next successful write.
func (a *App) persist(ctx context.Context) error {
	if err := a.store.SaveItems(ctx, a.items); err != nil {
		a.log.Errorf("save items: %v", err)
		return err
	}
	return nil
}

// ArchiveDraft saves the draft into the archive. If the draft is bound to an
// existing entry that entry is updated; otherwise a new entry is created and
// the draft is bound to it. It reports whether an existing entry was updated.
func (a *App) ArchiveDraft(ctx context.Context) (model.Entry, bool, error) {
	content := a.draft
	if strings.TrimSpace(content) == "" {
		return model.Entry{}, false, errs.ErrEmptyDraft
	}
	now := a.now()

	if i := a.indexOf(a.boundID); a.boundID != "" && i >= 0 && !a.items[i].Encrypted {
		a.items[i].Content = content
		if now > a.items[i].UpdatedAt {
			a.items[i].UpdatedAt = now
		}
		e := a.items[i]
		a.sortItems()
		return e, true, a.persist(ctx)
	}

	e := model.Entry{ID: codec.NewID(), Content: content, CreatedAt: now, UpdatedAt: now}
	a.items = append([]model.Entry{e}, a.items...)
	a.sortItems()
	a.bind(ctx, e.ID)
	return e, false, a.persist(ctx)
}

// LoadToDraft copies an entry into the draft and binds the draft to it.
// Encrypted entries must be decrypted first.
func (a *App) LoadToDraft(ctx context.Context, id string) (model.Entry, error) {
	e, err := a.Item(id)
	if err != nil {
		return e, err
	}
	if e.Encrypted {
		return e, fmt.Errorf("%w: decrypt %s first", errs.ErrEntryEncrypted, id)
	}
	a.draft = e.Content
	a.autosave.Schedule(e.Content)
	if err := a.autosave.Flush(ctx); err != nil {
		return e, err
	}
	a.bind(ctx, id)
	return e, nil
}

// DeleteItem moves an archived entry to the recycle bin.
func (a *App) DeleteItem(ctx context.Context, id string) (recycle.Event, error) {
	items, ev, err := a.recycle.Delete(ctx, a.items, id)
	a.items = items
	return ev, err
}

// RecycleItems returns the full recycle list, newest deletion first.
func (a *App) RecycleItems() []model.RecycledEntry { return a.recycle.Items() }

// FilterRecycle returns recycle entries whose first line matches query, with
// their indexes in the full list.
func (a *App) FilterRecycle(query string) []recycle.Match { return a.recycle.Filter(query) }

// RestoreFromRecycle moves the recycle entry at index back into the archive.
// If its id was reused meanwhile it gets a fresh one.
func (a *App) RestoreFromRecycle(ctx context.Context, index int) (model.Entry, error) {
	ev, err := a.recycle.Restore(ctx, index)
	if err != nil {
		return model.Entry{}, err
	}
	e := ev.Entry.Restore()
	if a.indexOf(e.ID) >= 0 {
		e = e.Reassign(codec.NewID())
	}
	a.items = append([]model.Entry{e}, a.items...)
	a.sortItems()
	return e, a.persist(ctx)
}

// DeleteFromRecycle permanently removes the recycle entry at index.
func (a *App) DeleteFromRecycle(ctx context.Context, index int) (recycle.Event, error) {
	return a.recycle.PermanentlyDelete(ctx, index)
}

// ClearRecycle permanently removes every recycled entry.
func (a *App) ClearRecycle(ctx context.Context) (recycle.Event, error) {
	return a.recycle.ClearAll(ctx)
}

// EncryptItem replaces an entry's content with an envelope sealed under
// password. Both password and hint are required. If the draft was bound to
// the entry the binding is cut so a later archive cannot overwrite the
// envelope with plaintext.
func (a *App) EncryptItem(ctx context.Context, id, password, hint string) (model.Entry, error) {
	i := a.indexOf(id)
	if i < 0 {
		return model.Entry{}, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
	}
	e := a.items[i]
	if e.Encrypted {
		return e, errs.ErrAlreadyEncrypted
	}
	if password == "" {
		return e, errs.ErrMissingPassword
	}
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return e, errs.ErrMissingHint
	}

	env, err := a.sealer.Encrypt(e.ID, e.Content, password)
	if err != nil {
		return e, err
	}
	e.Content = env
	e.Encrypted = true
	e.EncryptionHint = hint
	e.SealedID = ""
	e.UpdatedAt = max(a.now(), e.UpdatedAt)
	a.items[i] = e
	a.sortItems()
	if a.boundID == id {
		a.unbind(ctx)
	}
	return e, a.persist(ctx)
}

// DecryptItem opens an encrypted entry with password and stores the
// plaintext back. The envelope must carry the entry's own id.
func (a *App) DecryptItem(ctx context.Context, id, password string) (model.Entry, error) {
	i := a.indexOf(id)
	if i < 0 {
		return model.Entry{}, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
	}
	e := a.items[i]
	if !e.Encrypted {
		return e, errs.ErrNotEncrypted
	}

	plaintext, err := crypto.OpenFor(e.EnvelopeID(), e.Content, password)
	if err != nil {
		return e, err
	}
	e.Content = plaintext
	e.Encrypted = false
	e.EncryptionHint = ""
	e.SealedID = ""
	e.UpdatedAt = max(a.now(), e.UpdatedAt)
	a.items[i] = e
	a.sortItems()
	return e, a.persist(ctx)
}

// Import merges an export file into the archive and returns how many entries
// were added. With overwriteDraft the imported draft replaces the current one.
// Invalid data is rejected before anything changes.
func (a *App) Import(ctx context.Context, data []byte, overwriteDraft bool) (int, error) {
	r, err := importer.Import(data, a.now())
	if err != nil {
		return 0, err
	}
	reserved := make([]string, 0, a.recycle.Len())
	for _, rec := range a.recycle.Items() {
		reserved = append(reserved, rec.ID)
	}
	before := len(a.items)
	a.items = importer.Merge(a.items, r.Items, reserved...)
	added := len(a.items) - before

	if overwriteDraft {
		a.draft = r.Draft
		a.unbind(ctx)
		a.autosave.Schedule(r.Draft)
		if err := a.autosave.Flush(ctx); err != nil {
			return added, err
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, a.persist(ctx)
}

// Export returns the draft and archive in export format.
func (a *App) Export() importer.Export {
	return importer.NewExport(a.draft, a.Items(), time.Now())
}

// ClearAllData wipes settings, archive and recycle bin in one transaction
// and resets every mirror.
func (a *App) ClearAllData(ctx context.Context) error {
	a.autosave.Cancel()
	if err := a.store.ClearAll(ctx); err != nil {
		return err
	}
	a.items = []model.Entry{}
	a.draft = ""
	a.boundID = ""
	a.recycle.Reset()
	return nil
}

func (a *App) Theme(ctx context.Context) string { return a.settings.LoadTheme(ctx) }

func (a *App) SetTheme(ctx context.Context, theme string) error {
	return a.settings.SaveTheme(ctx, theme)
}

// ToggleTheme switches between dark and light and returns the new theme.
func (a *App) ToggleTheme(ctx context.Context) (string, error) {
	next := model.ThemeLight
	if a.Theme(ctx) == model.ThemeLight {
		next = model.ThemeDark
	}
	return next, a.settings.SaveTheme(ctx, next)
}

func (a *App) FontSize(ctx context.Context) int { return a.settings.LoadFontSize(ctx) }

func (a *App) SetFontSize(ctx context.Context, px int) error {
	return a.settings.SaveFontSize(ctx, px)
}

func (a *App) LLM(ctx context.Context) model.LLMSettings { return a.settings.LoadLLM(ctx) }

func (a *App) SetLLM(ctx context.Context, llm model.LLMSettings) error {
	return a.settings.SaveLLM(ctx, llm)
}

// DraftBytes is the draft's estimated footprint.
func (a *App) DraftBytes() int { return codec.TextBytes(a.draft) }

// DraftWords counts words in the draft.
func (a *App) DraftWords() int { return codec.WordCount(a.draft) }

// UsageBytes estimates the storage used by the draft, archive, recycle bin
// and display settings.
func (a *App) UsageBytes(ctx context.Context) int {
	return model.Usage{
		Draft:   a.draft,
		Items:   a.items,
		Recycle: a.recycle.Items(),
		Settings: model.UsageSettings{
			Theme:    a.Theme(ctx),
			FontSize: a.FontSize(ctx),
		},
	}.Bytes()
}
