// Package config provides the CLI commands for viewing and editing the
// fintrack configuration file.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/fintrack/internal/config"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify fintrack configuration",
	Long: `View or modify fintrack configuration.

Without a subcommand, shows the effective configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  fintrack config set api.base_url https://money.example.com/api
  fintrack config set tui.currency_symbol $
  fintrack config set logging.level debug

Valid keys:
  api.base_url                  - API root URL
  auth.token_store              - Token backend: file, sqlite, memory
  auth.refresh_on_unauthorized  - Refresh and retry once on 401 (true/false)
  storage.data_dir              - Directory for tokens and logs
  tui.default_page              - Page shown after login
                                  Options: dashboard, transactions, accounts, categories, insights
  tui.currency_symbol           - Prefix for displayed amounts
  tui.alt_screen                - Use the alternate screen (true/false)
  logging.enabled               - Write fintrack.log (true/false)
  logging.level                 - debug, info, warn, error
  logging.max_size_mb           - Rotate the log at this size
  logging.max_backups           - Rotated logs to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/fintrack/config.yaml with all available options.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR, then $VISUAL, then the first of vim, nano or vi found on PATH.
If no config file exists, creates one with default values first.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Examples:
  fintrack config reset                  # Reset all to defaults
  fintrack config reset logging.level    # Reset only logging.level`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds the config command tree to parent.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKind is how a settable value is parsed and checked.
type keyKind int

const (
	kindString keyKind = iota
	kindURL
	kindBool
	kindInt
	kindEnum
)

type keySpec struct {
	kind    keyKind
	options func() []string
}

var validKeys = map[string]keySpec{
	"api.base_url":                 {kind: kindURL},
	"auth.token_store":             {kind: kindEnum, options: appconfig.ValidTokenStores},
	"auth.refresh_on_unauthorized": {kind: kindBool},
	"storage.data_dir":             {kind: kindString},
	"tui.default_page":             {kind: kindEnum, options: appconfig.ValidPages},
	"tui.currency_symbol":          {kind: kindString},
	"tui.alt_screen":               {kind: kindBool},
	"logging.enabled":              {kind: kindBool},
	"logging.level":                {kind: kindEnum, options: appconfig.ValidLogLevels},
	"logging.max_size_mb":          {kind: kindInt},
	"logging.max_backups":          {kind: kindInt},
}

// parseValue converts value to the type stored under key.
func parseValue(key, value string) (any, error) {
	spec, ok := validKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'fintrack config set --help' to see valid keys", key)
	}

	switch spec.kind {
	case kindURL:
		cfg := appconfig.APIConfig{BaseURL: value}
		origin := cfg.Origin()
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("invalid value for %s: expected an absolute http(s) URL", key)
		}
		return strings.TrimRight(value, "/"), nil
	case kindEnum:
		options := spec.options()
		v := strings.ToLower(value)
		if !slices.Contains(options, v) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(options, ", "))
		}
		return v, nil
	case kindBool:
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		if n == 0 && key == "logging.max_size_mb" {
			return nil, fmt.Errorf("invalid value for %s: must be positive", key)
		}
		return n, nil
	default:
		if key == "tui.currency_symbol" && value == "" {
			return nil, fmt.Errorf("invalid value for %s: must not be empty", key)
		}
		return value, nil
	}
}

// defaultValues maps every settable key to its default.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"api.base_url":                 d.API.BaseURL,
		"auth.token_store":             d.Auth.TokenStore,
		"auth.refresh_on_unauthorized": d.Auth.RefreshOnUnauthorized,
		"storage.data_dir":             d.Storage.DataDir,
		"tui.default_page":             d.TUI.DefaultPage,
		"tui.currency_symbol":          d.TUI.CurrencySymbol,
		"tui.alt_screen":               d.TUI.AltScreen,
		"logging.enabled":              d.Logging.Enabled,
		"logging.level":                d.Logging.Level,
		"logging.max_size_mb":          d.Logging.MaxSizeMB,
		"logging.max_backups":          d.Logging.MaxBackups,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	settings := viper.AllSettings()
	delete(settings, "config")
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typed, err := parseValue(key, args[1])
	if err != nil {
		return err
	}

	viper.Set(key, typed)
	configFile, err := writeConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typed)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// writeConfig persists viper's current values to the user config file.
func writeConfig() (string, error) {
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

const defaultConfigContent = `# fintrack configuration

api:
  # Root URL every endpoint path is joined onto
  base_url: http://localhost:8000/api

auth:
  # Where tokens are kept: file, sqlite or memory
  token_store: file
  # On a 401, exchange the refresh token once and retry the request.
  # When false the session ends and you are asked to sign in again.
  refresh_on_unauthorized: false

storage:
  # Directory for tokens and logs (empty: $XDG_DATA_HOME/fintrack)
  data_dir: ""

# TUI (terminal user interface) settings
tui:
  # Page shown after login: dashboard, transactions, accounts, categories, insights
  default_page: dashboard
  # Prefix for displayed amounts
  currency_symbol: "₹"
  # Run in the terminal's alternate screen
  alt_screen: true

logging:
  # Write {data_dir}/fintrack.log
  enabled: true
  # debug, info, warn or error
  level: info
  # Rotate at this size and keep this many old files
  max_size_mb: 5
  max_backups: 2
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'fintrack config set' to modify values", configFile)
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize fintrack.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: FINTRACK_* (e.g., FINTRACK_API_BASE_URL)")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintln(out, "Config file doesn't exist, creating with defaults...")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = cmd.InOrStdin()
	editorCmd.Stdout = out
	editorCmd.Stderr = cmd.ErrOrStderr()
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(out, "Config file saved: %s\n", configFile)
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	for _, e := range []string{"vim", "nano", "vi"} {
		if _, err := execLookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'fintrack config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
