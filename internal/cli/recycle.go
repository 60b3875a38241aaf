package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/tempnotes/internal/codec"
)

func init() {
	recycleCmd := &cobra.Command{
		Use:   "recycle",
		Short: "Recycle bin management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recycled entries with their indexes",
		Run:   runRecycleList,
	}
	listCmd.Flags().StringP("search", "s", "", "Only entries whose first line contains this text")

	restoreCmd := &cobra.Command{
		Use:   "restore <index>",
		Short: "Move a recycled entry back into the archive",
		Args:  cobra.ExactArgs(1),
		Run:   runRecycleRestore,
	}
	purgeCmd := &cobra.Command{
		Use:   "purge <index>",
		Short: "Permanently delete a recycled entry",
		Args:  cobra.ExactArgs(1),
		Run:   runRecyclePurge,
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Permanently delete every recycled entry",
		Run:   runRecycleClear,
	}
	clearCmd.Flags().Bool("yes", false, "Do not ask for confirmation")

	recycleCmd.AddCommand(listCmd, restoreCmd, purgeCmd, clearCmd)
	RootCmd.AddCommand(recycleCmd)
}

type recycleRow struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	DeletedAt int64  `json:"deletedAt"`
	Encrypted bool   `json:"encrypted,omitempty"`
}

func runRecycleList(cmd *cobra.Command, args []string) {
	query, _ := cmd.Flags().GetString("search")

	a, done := openApp(cmd.Context())
	defer done()

	rows := []recycleRow{}
	for _, m := range a.FilterRecycle(query) {
		rows = append(rows, recycleRow{
			Index:     m.Index,
			ID:        m.Entry.ID,
			Title:     codec.Clamp(codec.FirstLine(m.Entry.Content), 60),
			DeletedAt: m.Entry.DeletedAt,
			Encrypted: m.Entry.Encrypted,
		})
	}

	if textFormat() {
		if len(rows) == 0 {
			fmt.Println("recycle bin is empty")
			return
		}
		for _, r := range rows {
			title := r.Title
			if r.Encrypted {
				title = "[encrypted]"
			}
			fmt.Printf("%3d  deleted %-14s  %s\n", r.Index, humanize.Time(codec.Time(r.DeletedAt)), title)
		}
		return
	}
	printJSON(rows)
}

func parseIndex(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		exitErr("index", fmt.Errorf("%q is not a number", s))
	}
	return i
}

func runRecycleRestore(cmd *cobra.Command, args []string) {
	index := parseIndex(args[0])

	a, done := openApp(cmd.Context())
	defer done()

	e, err := a.RestoreFromRecycle(cmd.Context(), index)
	if err != nil {
		exitErr("restore", err)
	}
	fmt.Printf(`{"ok":true,"restored":%q}`+"\n", e.ID)
}

func runRecyclePurge(cmd *cobra.Command, args []string) {
	index := parseIndex(args[0])

	a, done := openApp(cmd.Context())
	defer done()

	ev, err := a.DeleteFromRecycle(cmd.Context(), index)
	if err != nil {
		exitErr("purge", err)
	}
	fmt.Printf(`{"ok":true,"purged":%q}`+"\n", ev.Entry.ID)
}

func runRecycleClear(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")

	a, done := openApp(cmd.Context())
	defer done()

	n := len(a.RecycleItems())
	if n == 0 {
		fmt.Println(`{"ok":true,"cleared":0}`)
		return
	}
	if !yes && !confirm(fmt.Sprintf("Permanently delete all %d recycled entries?", n)) {
		exitErr("clear recycle bin", fmt.Errorf("cancelled"))
	}

	ev, err := a.ClearRecycle(cmd.Context())
	if err != nil {
		exitErr("clear recycle bin", err)
	}
	fmt.Printf(`{"ok":true,"cleared":%d}`+"\n", ev.Count)
}
