package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	encryptCmd := &cobra.Command{
		Use:   "encrypt <id>",
		Short: "Encrypt an archived entry with a password",
		Args:  cobra.ExactArgs(1),
		Run:   runEncrypt,
	}
	encryptCmd.Flags().String("hint", "", "Password hint shown when decrypting (required)")
	encryptCmd.Flags().Bool("password-stdin", false, "Read the password from the first line of stdin")
	encryptCmd.MarkFlagRequired("hint")

	decryptCmd := &cobra.Command{
		Use:   "decrypt <id>",
		Short: "Decrypt an archived entry",
		Args:  cobra.ExactArgs(1),
		Run:   runDecrypt,
	}
	decryptCmd.Flags().Bool("password-stdin", false, "Read the password from the first line of stdin")

	RootCmd.AddCommand(encryptCmd, decryptCmd)
}

// startSpinner shows progress while a key is derived. In verbose or debug
// mode it stays silent so log lines are not interleaved with it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	if err := s.Color("cyan"); err != nil {
		logger().Warnf("spinner color: %v", err)
	}
	if !verbose && !debug {
		s.Start()
	} else {
		logger().Infof("%s", message)
	}
	return s, s.Stop
}

func runEncrypt(cmd *cobra.Command, args []string) {
	hint, _ := cmd.Flags().GetString("hint")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")

	a, done := openApp(cmd.Context())
	defer done()

	e, err := a.Item(args[0])
	if err != nil {
		exitErr("encrypt", err)
	}
	if e.Encrypted {
		exitErr("encrypt", fmt.Errorf("%s: entry is already encrypted", e.ID))
	}

	pw, err := readPassword("Password: ", fromStdin)
	if err != nil {
		exitErr("encrypt", err)
	}
	if !fromStdin {
		again, err := readPassword("Repeat password: ", false)
		if err != nil {
			exitErr("encrypt", err)
		}
		if again != pw {
			exitErr("encrypt", fmt.Errorf("passwords do not match"))
		}
	}

	_, stop := startSpinner("Encrypting...")
	e, err = a.EncryptItem(cmd.Context(), args[0], pw, hint)
	stop()
	if err != nil {
		exitErr("encrypt", err)
	}
	fmt.Printf(`{"ok":true,"encrypted":%q,"hint":%q}`+"\n", e.ID, e.EncryptionHint)
}

func runDecrypt(cmd *cobra.Command, args []string) {
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")

	a, done := openApp(cmd.Context())
	defer done()

	e, err := a.Item(args[0])
	if err != nil {
		exitErr("decrypt", err)
	}
	if !e.Encrypted {
		exitErr("decrypt", fmt.Errorf("%s: entry is not encrypted", e.ID))
	}

	pw, err := readPassword(fmt.Sprintf("Password (hint: %s): ", e.EncryptionHint), fromStdin)
	if err != nil {
		exitErr("decrypt", err)
	}

	_, stop := startSpinner("Decrypting...")
	e, err = a.DecryptItem(cmd.Context(), args[0], pw)
	stop()
	if err != nil {
		exitErr("decrypt", err)
	}
	fmt.Printf(`{"ok":true,"decrypted":%q}`+"\n", e.ID)
}
