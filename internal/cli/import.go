package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Merge an export file into the archive",
		Long: "Import entries from a JSON export (file or stdin). Entries already in the archive\n" +
			"(same creation time and content) are skipped. The current draft is kept unless\n" +
			"--overwrite-draft is given.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	cmd.Flags().Bool("overwrite-draft", false, "Replace the current draft with the imported one")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	overwrite, _ := cmd.Flags().GetBool("overwrite-draft")

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read import", err)
	}

	a, done := openApp(cmd.Context())
	defer done()

	imported, err := a.Import(cmd.Context(), data, overwrite)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
