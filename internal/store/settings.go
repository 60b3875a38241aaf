package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/model"
)

// Settings reads and writes the typed scratchpad settings on top of a
// SettingsStore. Loads never fail: unreadable or invalid values come back as
// defaults and are logged.
type Settings struct {
	kv  SettingsStore
	log logging.Logger
}

// NewSettings wraps kv.
func NewSettings(kv SettingsStore, log logging.Logger) *Settings {
	return &Settings{kv: kv, log: log}
}

func (s *Settings) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.ReadSetting(ctx, key)
	if err != nil {
		s.log.Errorf("read setting %s: %v", key, err)
		return "", false
	}
	return v, ok
}

// LoadDraft returns the draft text, or "" if none is stored.
func (s *Settings) LoadDraft(ctx context.Context) string {
	v, _ := s.read(ctx, model.KeyDraft)
	return v
}

func (s *Settings) SaveDraft(ctx context.Context, text string) error {
	return s.kv.WriteSetting(ctx, model.KeyDraft, text)
}

// LoadDraftItemID returns the id of the entry the draft was loaded from.
func (s *Settings) LoadDraftItemID(ctx context.Context) string {
	v, _ := s.read(ctx, model.KeyDraftItemID)
	return v
}

// SaveDraftItemID binds the draft to id; an empty id removes the binding.
func (s *Settings) SaveDraftItemID(ctx context.Context, id string) error {
	if id == "" {
		return s.kv.DeleteSetting(ctx, model.KeyDraftItemID)
	}
	return s.kv.WriteSetting(ctx, model.KeyDraftItemID, id)
}

func (s *Settings) LoadTheme(ctx context.Context) string {
	v, ok := s.read(ctx, model.KeyTheme)
	if !ok {
		return model.DefaultTheme
	}
	if !model.ValidTheme(v) {
		s.log.Warnf("ignoring stored theme %q", v)
		return model.DefaultTheme
	}
	return v
}

func (s *Settings) SaveTheme(ctx context.Context, theme string) error {
	if !model.ValidTheme(theme) {
		return fmt.Errorf("%w: theme %q (want %s or %s)", errs.ErrInvalidSetting, theme, model.ThemeDark, model.ThemeLight)
	}
	return s.kv.WriteSetting(ctx, model.KeyTheme, theme)
}

func (s *Settings) LoadFontSize(ctx context.Context) int {
	v, ok := s.read(ctx, model.KeyFontSize)
	if !ok {
		return model.DefaultFontSize
	}
	px, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || !model.ValidFontSize(px) {
		s.log.Warnf("ignoring stored font size %q", v)
		return model.DefaultFontSize
	}
	return px
}

func (s *Settings) SaveFontSize(ctx context.Context, px int) error {
	if !model.ValidFontSize(px) {
		return fmt.Errorf("%w: font size %d (want %d-%d)", errs.ErrInvalidSetting, px, model.MinFontSize, model.MaxFontSize)
	}
	return s.kv.WriteSetting(ctx, model.KeyFontSize, strconv.Itoa(px))
}

func (s *Settings) LoadLLM(ctx context.Context) model.LLMSettings {
	base, _ := s.read(ctx, model.KeyLLMBaseURL)
	key, _ := s.read(ctx, model.KeyLLMAPIKey)
	m, _ := s.read(ctx, model.KeyLLMModel)
	return model.LLMSettings{BaseURL: base, APIKey: key, Model: m}
}

// SaveLLM stores the endpoint configuration. Values are trimmed and a base
// URL, when set, must be http or https.
func (s *Settings) SaveLLM(ctx context.Context, llm model.LLMSettings) error {
	base := strings.TrimRight(strings.TrimSpace(llm.BaseURL), "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("%w: base url %q must start with http:// or https://", errs.ErrInvalidSetting, llm.BaseURL)
	}
	for _, kv := range [][2]string{
		{model.KeyLLMBaseURL, base},
		{model.KeyLLMAPIKey, strings.TrimSpace(llm.APIKey)},
		{model.KeyLLMModel, strings.TrimSpace(llm.Model)},
	} {
		if err := s.kv.WriteSetting(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}
