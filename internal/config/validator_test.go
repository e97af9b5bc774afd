package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url"},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }, "api.base_url"},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://example.com/api" }, "api.base_url"},
		{"unknown token store", func(c *Config) { c.Auth.TokenStore = "keychain" }, "auth.token_store"},
		{"unknown page", func(c *Config) { c.TUI.DefaultPage = "reports" }, "tui.default_page"},
		{"long currency symbol", func(c *Config) { c.TUI.CurrencySymbol = "DOLLARS!!" }, "tui.currency_symbol"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidate_AcceptsAllBackendsAndPages(t *testing.T) {
	for _, store := range ValidTokenStores() {
		cfg := Default()
		cfg.Auth.TokenStore = store
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("token store %q rejected: %v", store, errs)
		}
	}
	for _, page := range ValidPages() {
		cfg := Default()
		cfg.TUI.DefaultPage = page
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("page %q rejected: %v", page, errs)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := ValidationErrors(nil).Error(); got != "" {
			t.Errorf("Error() = %q, want empty", got)
		}
	})

	t.Run("single", func(t *testing.T) {
		errs := ValidationErrors{{Field: "auth.token_store", Value: "x", Message: "bad"}}
		if got := errs.Error(); got != "auth.token_store: bad (got: x)" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "m1"},
			{Field: "b", Value: 2, Message: "m2"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() = %q", got)
		}
		if !strings.Contains(got, "  2. b: m2 (got: 2)") {
			t.Errorf("Error() missing second entry: %q", got)
		}
	})
}
