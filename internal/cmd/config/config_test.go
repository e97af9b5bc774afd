package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/Iron-Ham/fintrack/internal/config"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    any
		wantErr string
	}{
		{name: "url", key: "api.base_url", value: "https://money.example.com/api/", want: "https://money.example.com/api"},
		{name: "url without scheme", key: "api.base_url", value: "money.example.com", wantErr: "absolute http(s) URL"},
		{name: "url with other scheme", key: "api.base_url", value: "ftp://money.example.com", wantErr: "absolute http(s) URL"},
		{name: "token store", key: "auth.token_store", value: "SQLite", want: "sqlite"},
		{name: "unknown token store", key: "auth.token_store", value: "keychain", wantErr: "Valid options: file, sqlite, memory"},
		{name: "bool", key: "auth.refresh_on_unauthorized", value: "true", want: true},
		{name: "bad bool", key: "tui.alt_screen", value: "yes", wantErr: "expected true or false"},
		{name: "page", key: "tui.default_page", value: "insights", want: "insights"},
		{name: "unknown page", key: "tui.default_page", value: "settings", wantErr: "invalid value for tui.default_page"},
		{name: "level", key: "logging.level", value: "debug", want: "debug"},
		{name: "int", key: "logging.max_size_mb", value: "10", want: 10},
		{name: "negative int", key: "logging.max_backups", value: "-1", wantErr: "must be non-negative"},
		{name: "zero log size", key: "logging.max_size_mb", value: "0", wantErr: "must be positive"},
		{name: "zero backups", key: "logging.max_backups", value: "0", want: 0},
		{name: "not an int", key: "logging.max_backups", value: "two", wantErr: "expected integer"},
		{name: "currency", key: "tui.currency_symbol", value: "$", want: "$"},
		{name: "empty currency", key: "tui.currency_symbol", value: "", wantErr: "must not be empty"},
		{name: "data dir", key: "storage.data_dir", value: "~/money", want: "~/money"},
		{name: "unknown key", key: "tui.theme", value: "dark", wantErr: "unknown configuration key: tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultValuesCoverEveryKey(t *testing.T) {
	defaults := defaultValues()
	for key := range validKeys {
		_, ok := defaults[key]
		assert.True(t, ok, "no default for %s", key)
	}
	assert.Len(t, defaults, len(validKeys))
}

func TestFindEditor(t *testing.T) {
	orig := execLookPath
	t.Cleanup(func() { execLookPath = orig })

	t.Run("EDITOR wins", func(t *testing.T) {
		t.Setenv("EDITOR", "hx")
		t.Setenv("VISUAL", "code")
		assert.Equal(t, "hx", findEditor())
	})

	t.Run("falls back to PATH", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")
		execLookPath = func(file string) (string, error) {
			if file == "nano" {
				return "/usr/bin/nano", nil
			}
			return "", errors.New("not found")
		}
		assert.Equal(t, "nano", findEditor())
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")
		execLookPath = func(string) (string, error) { return "", errors.New("not found") }
		assert.Equal(t, "", findEditor())
	})
}

func TestSetAndInit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	viper.Reset()
	appconfig.SetDefaults()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	configSetCmd.SetOut(&out)
	require.NoError(t, runConfigSet(configSetCmd, []string{"logging.level", "warn"}))
	assert.Contains(t, out.String(), "Set logging.level = warn")

	data, err := os.ReadFile(appconfig.ConfigFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: warn")

	err = runConfigInit(configInitCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file already exists")
}

func TestInitWritesLoadableFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	require.NoError(t, runConfigInit(configInitCmd, nil))
	assert.True(t, strings.HasPrefix(out.String(), "Created config file at "))

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "fintrack", "config.yaml"))
	require.NoError(t, v.ReadInConfig())

	var cfg appconfig.Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, *appconfig.Default(), cfg)
}
