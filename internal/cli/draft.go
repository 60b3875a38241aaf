package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/tempnotes/internal/codec"
)

func init() {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Show, replace, clear or archive the draft",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the draft",
		Run:   runDraftShow,
	}
	setCmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the draft",
		Long:  "Replace the draft. Text can be a positional arg or piped via stdin.",
		Run:   runDraftSet,
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the draft",
		Run:   runDraftClear,
	}
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Save the draft into the archive",
		Long:  "Save the draft into the archive. If the draft was loaded from an entry, that entry is updated.",
		Run:   runDraftArchive,
	}

	draftCmd.AddCommand(showCmd, setCmd, clearCmd, archiveCmd)
	RootCmd.AddCommand(draftCmd)
}

func runDraftShow(cmd *cobra.Command, args []string) {
	a, done := openApp(cmd.Context())
	defer done()

	if textFormat() {
		fmt.Print(a.Draft())
		return
	}
	printJSON(map[string]any{
		"draft":   a.Draft(),
		"words":   a.DraftWords(),
		"bytes":   a.DraftBytes(),
		"boundId": a.BoundID(),
	})
}

func runDraftSet(cmd *cobra.Command, args []string) {
	text := readInput(args)

	a, done := openApp(cmd.Context())
	defer done()

	a.SetDraft(cmd.Context(), text)
	if err := a.FlushDraft(cmd.Context()); err != nil {
		exitErr("save draft", err)
	}
	fmt.Printf(`{"ok":true,"words":%d,"bytes":%d}`+"\n", a.DraftWords(), a.DraftBytes())
}

func runDraftClear(cmd *cobra.Command, args []string) {
	a, done := openApp(cmd.Context())
	defer done()

	if err := a.ClearDraft(cmd.Context()); err != nil {
		exitErr("clear draft", err)
	}
	fmt.Println(`{"ok":true}`)
}

func runDraftArchive(cmd *cobra.Command, args []string) {
	a, done := openApp(cmd.Context())
	defer done()

	e, updated, err := a.ArchiveDraft(cmd.Context())
	if err != nil {
		exitErr("archive", err)
	}
	if textFormat() {
		verb := "archived"
		if updated {
			verb = "updated"
		}
		fmt.Printf("%s %s %s\n", verb, e.ID, codec.Clamp(codec.FirstLine(e.Content), 60))
		return
	}
	printJSON(map[string]any{"updated": updated, "entry": e})
}
