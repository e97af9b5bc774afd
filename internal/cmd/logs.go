package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fintrack/internal/config"
	"github.com/Iron-Ham/fintrack/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the client log",
	Long: `View and filter fintrack's own log file.

Examples:
  # Show the last 50 entries
  fintrack logs

  # Show everything at warn or above from the last hour
  fintrack logs -n 0 --level warn --since 1h

  # Only API client entries mentioning refresh
  fintrack logs --component api --grep refresh`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsSince     string
	logsComponent string
	logsGrep      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (api, session, views, tui)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	out := cmd.OutOrStdout()

	logPath := filepath.Join(cfg.Storage.ResolveDataDir(), logging.FileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	if logsLevel != "" && !slices.Contains(config.ValidLogLevels(), strings.ToLower(logsLevel)) {
		return fmt.Errorf("invalid level %q (valid: %s)", logsLevel, strings.Join(config.ValidLogLevels(), ", "))
	}

	filter := logging.LogFilter{
		Level:           logsLevel,
		Component:       logsComponent,
		MessageContains: logsGrep,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.Since = time.Now().Add(-d)
	}

	entries, err := logging.ReadLogs(logPath)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}
	entries = logging.FilterLogs(entries, filter)

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, e.String())
	}
	return nil
}
