package store

import (
	"context"
	"errors"
	"testing"

	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/model"
)

func TestSettingsDefaults(t *testing.T) {
	ctx := context.Background()
	st := NewSettings(newTestStore(t), logging.Discard())

	if got := st.LoadDraft(ctx); got != "" {
		t.Errorf("draft: got %q", got)
	}
	if got := st.LoadTheme(ctx); got != model.DefaultTheme {
		t.Errorf("theme: got %q", got)
	}
	if got := st.LoadFontSize(ctx); got != model.DefaultFontSize {
		t.Errorf("font size: got %d", got)
	}
	if got := st.LoadLLM(ctx); got != (model.LLMSettings{}) {
		t.Errorf("llm: got %+v", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewSettings(newTestStore(t), logging.Discard())

	st.SaveDraft(ctx, "draft text")
	st.SaveTheme(ctx, model.ThemeLight)
	st.SaveFontSize(ctx, 18)
	st.SaveDraftItemID(ctx, "abc")
	st.SaveLLM(ctx, model.LLMSettings{BaseURL: " https://api.example.com/v1/ ", APIKey: "k", Model: "m"})

	if got := st.LoadDraft(ctx); got != "draft text" {
		t.Errorf("draft: got %q", got)
	}
	if got := st.LoadTheme(ctx); got != model.ThemeLight {
		t.Errorf("theme: got %q", got)
	}
	if got := st.LoadFontSize(ctx); got != 18 {
		t.Errorf("font size: got %d", got)
	}
	if got := st.LoadDraftItemID(ctx); got != "abc" {
		t.Errorf("draft item id: got %q", got)
	}
	want := model.LLMSettings{BaseURL: "https://api.example.com/v1", APIKey: "k", Model: "m"}
	if got := st.LoadLLM(ctx); got != want {
		t.Errorf("llm: got %+v", got)
	}

	st.SaveDraftItemID(ctx, "")
	if got := st.LoadDraftItemID(ctx); got != "" {
		t.Errorf("expected binding removed, got %q", got)
	}
}

func TestSettingsValidation(t *testing.T) {
	ctx := context.Background()
	st := NewSettings(newTestStore(t), logging.Discard())

	if err := st.SaveTheme(ctx, "blue"); !errors.Is(err, errs.ErrInvalidSetting) {
		t.Errorf("theme: expected ErrInvalidSetting, got %v", err)
	}
	for _, px := range []int{11, 21} {
		if err := st.SaveFontSize(ctx, px); !errors.Is(err, errs.ErrInvalidSetting) {
			t.Errorf("font size %d: expected ErrInvalidSetting, got %v", px, err)
		}
	}
	if err := st.SaveLLM(ctx, model.LLMSettings{BaseURL: "ftp://x"}); !errors.Is(err, errs.ErrInvalidSetting) {
		t.Errorf("llm: expected ErrInvalidSetting, got %v", err)
	}
}

func TestSettingsInvalidStoredValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	st := NewSettings(s, logging.Discard())

	s.WriteSetting(ctx, model.KeyTheme, "neon")
	s.WriteSetting(ctx, model.KeyFontSize, "99")
	if got := st.LoadTheme(ctx); got != model.DefaultTheme {
		t.Errorf("theme: got %q", got)
	}
	if got := st.LoadFontSize(ctx); got != model.DefaultFontSize {
		t.Errorf("font size: got %d", got)
	}

	s.WriteSetting(ctx, model.KeyFontSize, "abc")
	if got := st.LoadFontSize(ctx); got != model.DefaultFontSize {
		t.Errorf("font size: got %d", got)
	}
}
