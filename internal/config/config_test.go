package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8000/api")
	}
	if cfg.Auth.TokenStore != "file" {
		t.Errorf("Auth.TokenStore = %q, want %q", cfg.Auth.TokenStore, "file")
	}
	if cfg.Auth.RefreshOnUnauthorized {
		t.Error("Auth.RefreshOnUnauthorized should be false by default")
	}
	if cfg.TUI.DefaultPage != "dashboard" {
		t.Errorf("TUI.DefaultPage = %q, want %q", cfg.TUI.DefaultPage, "dashboard")
	}
	if cfg.TUI.CurrencySymbol != "₹" {
		t.Errorf("TUI.CurrencySymbol = %q, want %q", cfg.TUI.CurrencySymbol, "₹")
	}
	if !cfg.TUI.AltScreen {
		t.Error("TUI.AltScreen should be true by default")
	}
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.MaxSizeMB != 5 || cfg.Logging.MaxBackups != 2 {
		t.Errorf("Logging rotation = %d/%d, want 5/2", cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() should validate, got %v", errs)
	}
}

func TestAPIConfig_Origin(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"http://localhost:8000/api", "http://localhost:8000"},
		{"HTTPS://Finance.Example.com/api/v1/", "https://finance.example.com"},
		{"https://example.com", "https://example.com"},
		{"not a url", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			api := APIConfig{BaseURL: tt.baseURL}
			if got := api.Origin(); got != tt.want {
				t.Errorf("Origin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorageConfig_ResolveDataDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	t.Run("empty uses XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		s := StorageConfig{}
		if got := s.ResolveDataDir(); got != "/custom/data/fintrack" {
			t.Errorf("ResolveDataDir() = %q", got)
		}
	})

	t.Run("empty without XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		s := StorageConfig{}
		want := filepath.Join(home, ".local", "share", "fintrack")
		if got := s.ResolveDataDir(); got != want {
			t.Errorf("ResolveDataDir() = %q, want %q", got, want)
		}
	})

	t.Run("tilde expansion", func(t *testing.T) {
		s := StorageConfig{DataDir: "~/fin"}
		if got := s.ResolveDataDir(); got != filepath.Join(home, "fin") {
			t.Errorf("ResolveDataDir() = %q", got)
		}
	})

	t.Run("absolute path kept", func(t *testing.T) {
		s := StorageConfig{DataDir: "/var/lib/fintrack"}
		if got := s.ResolveDataDir(); got != "/var/lib/fintrack" {
			t.Errorf("ResolveDataDir() = %q", got)
		}
	})
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/fintrack" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/fintrack")
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "fintrack")
		if got := ConfigDir(); got != expected {
			t.Errorf("ConfigDir() = %q, want %q", got, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigFile(); got != "/custom/config/fintrack/config.yaml" {
		t.Errorf("ConfigFile() = %q", got)
	}
}

func TestLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.API.BaseURL != Default().API.BaseURL {
			t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		viper.Set("api.base_url", "https://fin.example.com/api")
		viper.Set("auth.token_store", "sqlite")
		viper.Set("auth.refresh_on_unauthorized", true)
		defer func() {
			viper.Reset()
			SetDefaults()
		}()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.API.BaseURL != "https://fin.example.com/api" {
			t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
		}
		if cfg.Auth.TokenStore != "sqlite" || !cfg.Auth.RefreshOnUnauthorized {
			t.Errorf("Auth = %+v", cfg.Auth)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		viper.Set("auth.token_store", "keychain")
		defer func() {
			viper.Reset()
			SetDefaults()
		}()

		if _, err := Load(); err == nil {
			t.Error("Load() should fail for an unknown token store")
		}
		if Get().Auth.TokenStore != "file" {
			t.Error("Get() should fall back to defaults on invalid config")
		}
	})
}
