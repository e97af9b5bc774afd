package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete fintrack configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig points the client at the remote finance API
type APIConfig struct {
	// BaseURL is the API root every endpoint path is joined onto
	// (default: "http://localhost:8000/api"). FINTRACK_API_BASE_URL overrides it.
	BaseURL string `mapstructure:"base_url"`
}

// AuthConfig controls how credentials are kept and renewed
type AuthConfig struct {
	// TokenStore selects the token backend: "file", "sqlite" or "memory" (default: "file")
	TokenStore string `mapstructure:"token_store"`
	// RefreshOnUnauthorized exchanges the refresh token once and replays the
	// request when the API answers 401. When false (default) a 401 logs the user out.
	RefreshOnUnauthorized bool `mapstructure:"refresh_on_unauthorized"`
}

// StorageConfig controls where fintrack keeps its files
type StorageConfig struct {
	// DataDir holds tokens and logs. Empty means $XDG_DATA_HOME/fintrack,
	// falling back to ~/.local/share/fintrack. Supports ~ expansion.
	DataDir string `mapstructure:"data_dir"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// DefaultPage is the page shown after login (default: "dashboard")
	DefaultPage string `mapstructure:"default_page"`
	// CurrencySymbol prefixes every displayed amount (default: "₹")
	CurrencySymbol string `mapstructure:"currency_symbol"`
	// AltScreen runs the TUI in the terminal's alternate screen (default: true)
	AltScreen bool `mapstructure:"alt_screen"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging to {data_dir}/fintrack.log is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
}

// Origin returns scheme://host[:port] of the base URL, the namespace tokens
// are stored under. It returns "" when the base URL cannot be parsed.
func (a *APIConfig) Origin() string {
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// ResolveDataDir returns the data directory with ~ expanded.
// If DataDir is empty, it returns DefaultDataDir().
func (s *StorageConfig) ResolveDataDir() string {
	if s.DataDir == "" {
		return DefaultDataDir()
	}

	path := s.DataDir
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return path
}

// DefaultDataDir returns $XDG_DATA_HOME/fintrack or ~/.local/share/fintrack
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fintrack"
	}
	return filepath.Join(home, ".local", "share", "fintrack")
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
		},
		Auth: AuthConfig{
			TokenStore:            "file",
			RefreshOnUnauthorized: false,
		},
		Storage: StorageConfig{
			DataDir: "", // Empty means use DefaultDataDir()
		},
		TUI: TUIConfig{
			DefaultPage:    "dashboard",
			CurrencySymbol: "₹",
			AltScreen:      true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)

	// Auth defaults
	viper.SetDefault("auth.token_store", defaults.Auth.TokenStore)
	viper.SetDefault("auth.refresh_on_unauthorized", defaults.Auth.RefreshOnUnauthorized)

	// Storage defaults
	viper.SetDefault("storage.data_dir", defaults.Storage.DataDir)

	// TUI defaults
	viper.SetDefault("tui.default_page", defaults.TUI.DefaultPage)
	viper.SetDefault("tui.currency_symbol", defaults.TUI.CurrencySymbol)
	viper.SetDefault("tui.alt_screen", defaults.TUI.AltScreen)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fintrack")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fintrack"
	}
	return filepath.Join(home, ".config", "fintrack")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
