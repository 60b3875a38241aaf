package tui

// tickMsg polls the autosave state.
type tickMsg struct{}

// clearStatusMsg expires a status line. Seq guards against clearing a newer one.
type clearStatusMsg struct {
	Seq int
}
