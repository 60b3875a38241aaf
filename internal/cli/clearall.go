package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete the draft, archive, recycle bin and settings",
		Run:   runClearAll,
	}
	cmd.Flags().Bool("yes", false, "Do not ask for confirmation")

	RootCmd.AddCommand(cmd)
}

func runClearAll(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirm("Delete ALL notes, the recycle bin and settings? This cannot be undone.") {
		exitErr("clear all", fmt.Errorf("cancelled (pass --yes to skip the prompt)"))
	}

	a, done := openApp(cmd.Context())
	defer done()

	if err := a.ClearAllData(cmd.Context()); err != nil {
		exitErr("clear all", err)
	}
	fmt.Println(`{"ok":true}`)
}
