package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Move an archived entry to the recycle bin",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	a, done := openApp(cmd.Context())
	defer done()

	ev, err := a.DeleteItem(cmd.Context(), args[0])
	if err != nil {
		exitErr("rm", err)
	}
	fmt.Printf(`{"ok":true,"%s":%q}`+"\n", ev.Kind, ev.Entry.ID)
}
