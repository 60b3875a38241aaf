package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Copy an archived entry into the draft",
		Long:  "Copy an archived entry into the draft. A later 'draft archive' updates that entry instead of creating a new one.",
		Args:  cobra.ExactArgs(1),
		Run:   runLoad,
	}

	RootCmd.AddCommand(cmd)
}

func runLoad(cmd *cobra.Command, args []string) {
	a, done := openApp(cmd.Context())
	defer done()

	e, err := a.LoadToDraft(cmd.Context(), args[0])
	if err != nil {
		exitErr("load", err)
	}
	fmt.Printf(`{"ok":true,"loaded":%q}`+"\n", e.ID)
}
