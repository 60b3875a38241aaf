package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/tempnotes/internal/codec"
	"github.com/rcliao/tempnotes/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived entries, newest first",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("ids-only", false, "Only output entry ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	a, done := openApp(cmd.Context())
	defer done()

	items := a.Items()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if idsOnly {
		for _, e := range items {
			fmt.Println(e.ID)
		}
		return
	}
	if textFormat() {
		printEntries(items)
		return
	}
	printJSON(items)
}

// printEntries writes one line per entry: id, age and title.
func printEntries(items []model.Entry) {
	for _, e := range items {
		title := codec.Clamp(codec.FirstLine(e.Content), 60)
		if e.Encrypted {
			title = "[encrypted] hint: " + e.EncryptionHint
		}
		fmt.Printf("%s  %-14s  %s\n", e.ID, humanize.Time(codec.Time(e.UpdatedAt)), title)
	}
}
