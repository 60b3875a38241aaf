// Package tui is the interactive scratchpad editor: a single draft buffer
// that autosaves, with keys to archive it, clear it and switch theme.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/rcliao/tempnotes/internal/app"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/model"
)

const (
	pollInterval = 200 * time.Millisecond
	statusTTL    = 4 * time.Second
)

// Model is the root bubbletea model for the editor.
type Model struct {
	ctx context.Context
	app *app.App

	editor textarea.Model
	styles palette
	theme  string

	width  int
	height int

	saveState app.SaveState
	saveErr   error

	items int
	usage int
	dirty bool

	status    string
	statusErr bool
	statusSeq int

	quitting bool
}

// New returns a Model editing a's draft. a must already be initialized.
func New(ctx context.Context, a *app.App) Model {
	ta := textarea.New()
	ta.Placeholder = "Start typing. Everything is saved as you go."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(a.Draft())
	ta.Focus()

	theme := a.Theme(ctx)
	m := Model{
		ctx:    ctx,
		app:    a,
		editor: ta,
		theme:  theme,
		styles: newPalette(theme),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{Seq: seq} })
}

// refresh recomputes the counters shown in the status line.
func (m *Model) refresh() {
	m.items = len(m.app.Items())
	m.usage = m.app.UsageBytes(m.ctx)
	m.dirty = false
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return clearStatusCmd(m.statusSeq)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(msg.Width-4, 10))
		m.editor.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case tickMsg:
		m.saveState, m.saveErr = m.app.SaveState()
		if m.dirty && m.saveState != app.Saving {
			m.refresh()
		}
		return m, tickCmd()

	case clearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.app.SetDraft(m.ctx, m.editor.Value())
		if err := m.app.FlushDraft(m.ctx); err != nil {
			m.saveErr = err
		}
		m.quitting = true
		return m, tea.Quit

	case "ctrl+s":
		e, updated, err := m.app.ArchiveDraft(m.ctx)
		if err != nil {
			return m, m.setStatus(errs.Message(err), true)
		}
		m.refresh()
		verb := "Archived"
		if updated {
			verb = "Updated"
		}
		return m, m.setStatus(fmt.Sprintf("%s %s", verb, e.ID), false)

	case "ctrl+l":
		if err := m.app.ClearDraft(m.ctx); err != nil {
			return m, m.setStatus(errs.Message(err), true)
		}
		m.editor.Reset()
		m.refresh()
		return m, m.setStatus("Draft cleared", false)

	case "ctrl+t":
		theme, err := m.app.ToggleTheme(m.ctx)
		if err != nil {
			return m, m.setStatus(errs.Message(err), true)
		}
		m.theme = theme
		m.styles = newPalette(theme)
		return m, m.setStatus("Theme: "+theme, false)
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.app.SetDraft(m.ctx, after)
		m.dirty = true
	}
	return m, cmd
}

// Err is the last autosave failure, if any.
func (m Model) Err() error {
	return m.saveErr
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("tempnotes"))
	if id := m.app.BoundID(); id != "" {
		b.WriteString(m.styles.Dim.Render("  editing " + id))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Border.Render(m.editor.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("ctrl+s archive · ctrl+l clear · ctrl+t theme · esc quit"))
	return b.String()
}

func (m Model) renderStatusLine() string {
	var save string
	switch m.saveState {
	case app.Saving:
		save = m.styles.Saving.Render("● saving")
	case app.Failed:
		save = m.styles.Error.Render("● " + errs.Message(m.saveErr))
	default:
		save = m.styles.Saved.Render("● saved")
	}

	counts := m.styles.Dim.Render(fmt.Sprintf("  %d words · %d archived · %s",
		m.app.DraftWords(), m.items, humanize.IBytes(uint64(m.usage))))

	line := save + counts
	if m.status != "" {
		style := m.styles.Info
		if m.statusErr {
			style = m.styles.Error
		}
		line += "  " + style.Render(m.status)
	}
	return line
}

// Theme is the active theme name.
func (m Model) Theme() string {
	if m.theme == "" {
		return model.DefaultTheme
	}
	return m.theme
}

// Run opens the editor full screen and blocks until the user quits. The
// returned error is a terminal failure or the last autosave failure.
func Run(ctx context.Context, a *app.App) error {
	mm, err := tea.NewProgram(New(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := mm.(Model); ok {
		return m.Err()
	}
	return nil
}
