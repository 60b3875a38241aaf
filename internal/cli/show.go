package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived entry",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	cmd.Flags().Bool("render", false, "Render the content as Markdown")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	render, _ := cmd.Flags().GetBool("render")

	a, done := openApp(cmd.Context())
	defer done()

	e, err := a.Item(args[0])
	if err != nil {
		exitErr("show", err)
	}

	switch {
	case render && !e.Encrypted:
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			exitErr("render", err)
		}
		out, err := r.Render(e.Content)
		if err != nil {
			exitErr("render", err)
		}
		fmt.Print(out)
	case textFormat():
		if e.Encrypted {
			fmt.Printf("[encrypted, hint: %s]\n", e.EncryptionHint)
			return
		}
		fmt.Println(e.Content)
	default:
		printJSON(e)
	}
}
