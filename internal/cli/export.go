package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the draft and archive as JSON",
		Long:  "Export the draft and archived entries as a versioned JSON document. Encrypted entries stay encrypted.",
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("output")

	a, done := openApp(cmd.Context())
	defer done()

	exp := a.Export()
	b, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		exitErr("export", err)
	}

	if out == "" {
		fmt.Println(string(b))
		return
	}
	if err := os.WriteFile(out, append(b, '\n'), 0o600); err != nil {
		exitErr("export", err)
	}
	logger().Infof("exported %d entries to %s", len(exp.Items), out)
	fmt.Printf(`{"ok":true,"exported":%d,"path":%q}`+"\n", len(exp.Items), out)
}
