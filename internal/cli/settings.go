package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/tempnotes/internal/model"
)

func init() {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display and LLM settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show all settings",
		Run:   runSettingsShow,
	}
	themeCmd := &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Set the theme, or toggle it when no value is given",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSettingsTheme,
	}
	fontCmd := &cobra.Command{
		Use:   "font-size <px>",
		Short: fmt.Sprintf("Set the editor font size (%d-%d)", model.MinFontSize, model.MaxFontSize),
		Args:  cobra.ExactArgs(1),
		Run:   runSettingsFontSize,
	}
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "Set the LLM endpoint configuration",
		Run:   runSettingsLLM,
	}
	llmCmd.Flags().String("base-url", "", "Endpoint base URL (http or https)")
	llmCmd.Flags().String("api-key", "", "API key")
	llmCmd.Flags().String("model", "", "Model name")

	settingsCmd.AddCommand(showCmd, themeCmd, fontCmd, llmCmd)
	RootCmd.AddCommand(settingsCmd)
}

type settingsView struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"fontSize"`
	LLM      struct {
		BaseURL string `json:"baseUrl"`
		APIKey  string `json:"apiKey,omitempty"`
		Model   string `json:"model"`
	} `json:"llm"`
}

func maskKey(k string) string {
	if len(k) <= 4 {
		return k
	}
	return "****" + k[len(k)-4:]
}

func runSettingsShow(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	a, done := openApp(ctx)
	defer done()

	var v settingsView
	v.Theme = a.Theme(ctx)
	v.FontSize = a.FontSize(ctx)
	llm := a.LLM(ctx)
	v.LLM.BaseURL = llm.BaseURL
	v.LLM.APIKey = maskKey(llm.APIKey)
	v.LLM.Model = llm.Model

	if textFormat() {
		fmt.Printf("theme:     %s\nfont size: %dpx\n", v.Theme, v.FontSize)
		fmt.Printf("llm:       %s %s\n", v.LLM.BaseURL, v.LLM.Model)
		return
	}
	printJSON(v)
}

func runSettingsTheme(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	a, done := openApp(ctx)
	defer done()

	var (
		theme string
		err   error
	)
	if len(args) == 0 {
		theme, err = a.ToggleTheme(ctx)
	} else {
		theme = args[0]
		err = a.SetTheme(ctx, theme)
	}
	if err != nil {
		exitErr("theme", err)
	}
	fmt.Printf(`{"ok":true,"theme":%q}`+"\n", theme)
}

func runSettingsFontSize(cmd *cobra.Command, args []string) {
	px, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("font size", fmt.Errorf("%q is not a number", args[0]))
	}

	ctx := cmd.Context()
	a, done := openApp(ctx)
	defer done()

	if err := a.SetFontSize(ctx, px); err != nil {
		exitErr("font size", err)
	}
	fmt.Printf(`{"ok":true,"fontSize":%d}`+"\n", px)
}

func runSettingsLLM(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	a, done := openApp(ctx)
	defer done()

	llm := a.LLM(ctx)
	if cmd.Flags().Changed("base-url") {
		llm.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("api-key") {
		llm.APIKey, _ = cmd.Flags().GetString("api-key")
	}
	if cmd.Flags().Changed("model") {
		llm.Model, _ = cmd.Flags().GetString("model")
	}

	if err := a.SetLLM(ctx, llm); err != nil {
		exitErr("llm settings", err)
	}
	fmt.Println(`{"ok":true}`)
}
