// Package cli implements the tempnotes CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/tempnotes/internal/app"
	"github.com/rcliao/tempnotes/internal/config"
	"github.com/rcliao/tempnotes/internal/crypto"
	errs "github.com/rcliao/tempnotes/internal/errors"
	"github.com/rcliao/tempnotes/internal/logging"
	"github.com/rcliao/tempnotes/internal/store"
)

var (
	dbPath     string
	configPath string
	formatFlag string
	verbose    bool
	debug      bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tempnotes",
	Short: "A local scratchpad with an archive, a recycle bin and per-note encryption",
	Long: "A single draft buffer that autosaves, an archive of saved notes, a recycle bin for deleted ones,\n" +
		"optional per-note password encryption, and JSON import/export. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $TEMPNOTES_DB, config db_path, or ~/.tempnotes/tempnotes.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $TEMPNOTES_CONFIG or ~/.tempnotes/config.toml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info messages")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug messages")
}

func logger() logging.Logger {
	return logging.Logger{Verbose: verbose, Debug: debug}
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

func loadConfig() config.Config {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func getDBPath() string {
	return loadConfig().ResolveDBPath(dbPath)
}

func openStore() (*store.SQLiteStore, error) {
	path := getDBPath()
	logger().Debugf("database: %s", path)
	return store.NewSQLiteStore(path, logger())
}

// openApp opens the store and returns an initialized controller. The
// returned func flushes the draft and closes the store.
func openApp(ctx context.Context) (*app.App, func()) {
	return openAppWith(ctx, logger())
}

func openAppWith(ctx context.Context, log logging.Logger) (*app.App, func()) {
	cfg := loadConfig()
	params, err := cfg.CryptoParams()
	if err != nil {
		exitErr("config", err)
	}
	sealer, err := crypto.NewSealer(params)
	if err != nil {
		exitErr("config", err)
	}

	s, err := store.NewSQLiteStore(cfg.ResolveDBPath(dbPath), log)
	if err != nil {
		exitErr("open store", err)
	}
	a := app.New(app.Options{
		Store:         s,
		Log:           log,
		Sealer:        sealer,
		AutosaveDelay: cfg.AutosaveDelay(),
	})
	a.Init(ctx)
	return a, func() {
		if err := a.Close(ctx); err != nil {
			log.Errorf("save draft: %v", err)
		}
		s.Close()
	}
}

func textFormat() bool {
	return formatFlag == "text"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// readInput returns args joined by spaces, or stdin when it is piped.
func readInput(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return string(b)
	}
	return ""
}

func describe(err error) string {
	if m := errs.Message(err); m != errs.GenericMessage {
		return m
	}
	return err.Error()
}

func exitErr(msg string, err error) {
	logger().Infof("%s: %v", msg, err)
	fmt.Fprintf(os.Stderr, "error: %s: %s\n", msg, describe(err))
	os.Exit(1)
}
