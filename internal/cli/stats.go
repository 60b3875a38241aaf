package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	if textFormat() {
		fmt.Printf("database:  %s (%s)\n", stats.DBPath, stats.DBSize)
		fmt.Printf("archive:   %d entries, %d encrypted\n", stats.Items, stats.EncryptedItems)
		fmt.Printf("recycle:   %d entries\n", stats.RecycledItems)
		fmt.Printf("draft:     %d words\n", stats.DraftWords)
		fmt.Printf("usage:     %s\n", stats.Usage)
		if stats.NewestUpdate != "" {
			fmt.Printf("updated:   %s\n", stats.NewestUpdate)
		}
		return
	}
	printJSON(stats)
}
