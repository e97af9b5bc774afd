package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fintrack/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive UI (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		e.logger.Info("starting tui", "api", e.cfg.API.BaseURL)
		app := tui.New(cmd.Context(), tui.Options{
			Session:   e.session,
			Service:   e.expenses,
			Logger:    e.logger,
			Currency:  e.cfg.TUI.CurrencySymbol,
			AltScreen: e.cfg.TUI.AltScreen,
		})
		return app.Run()
	})
}
