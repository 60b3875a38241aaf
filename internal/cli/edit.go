package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the draft in the full-screen editor",
		Long: "Open the draft in a full-screen editor. Edits are saved automatically.\n" +
			"ctrl+s archives the draft, ctrl+l clears it, ctrl+t switches theme, esc quits.\n" +
			"With --debug, log output goes to tempnotes-debug.log in the current directory.",
		Run: runEdit,
	}

	RootCmd.AddCommand(cmd)
}

func runEdit(cmd *cobra.Command, args []string) {
	// The editor owns the terminal; log lines would corrupt it.
	log := logging.Logger{Verbose: verbose, Debug: debug, Out: io.Discard, Err: io.Discard}
	if debug {
		f, err := tea.LogToFile("tempnotes-debug.log", "tempnotes")
		if err != nil {
			exitErr("debug log", err)
		}
		defer f.Close()
		log.Err = f
	}

	a, done := openAppWith(cmd.Context(), log)
	defer done()

	if err := tui.Run(cmd.Context(), a); err != nil {
		exitErr("edit", err)
	}
}
