package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shorts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.Tickers)
	assert.Equal(t, BackendYahoo, cfg.Backend)
	assert.Equal(t, DefaultYahooURL, cfg.Yahoo.BaseURL)
	assert.Equal(t, DefaultCookieURL, cfg.Yahoo.CookieURL)
	assert.Equal(t, DefaultTimeout, cfg.Yahoo.Timeout)
	assert.Equal(t, []string{"defaultKeyStatistics", "summaryDetail"}, cfg.Yahoo.Modules)
	assert.False(t, cfg.Slack.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadAndValidate(t *testing.T) {
	t.Setenv("SHORTS_TEST_SLACK_TOKEN", "xoxb-test")
	path := writeConfig(t, `
tickers: [gme, amc]
yahoo:
  timeout: 5s
  modules: [defaultKeyStatistics]
slack:
  token: ${SHORTS_TEST_SLACK_TOKEN}
  channel: C0LAN2Q65
`)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gme", "amc"}, cfg.Tickers)
	assert.Equal(t, BackendYahoo, cfg.Backend)
	assert.Equal(t, DefaultYahooURL, cfg.Yahoo.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Yahoo.Timeout)
	assert.Equal(t, []string{"defaultKeyStatistics"}, cfg.Yahoo.Modules)
	assert.Equal(t, "xoxb-test", cfg.Slack.Token)
	assert.True(t, cfg.Slack.Enabled())
}

func TestLoad_errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "tickers: [unterminated"))
		assert.ErrorContains(t, err, "parse config yaml")
	})
}

func TestLoadAndValidate_overrides(t *testing.T) {
	t.Run("without file", func(t *testing.T) {
		cfg, err := LoadAndValidate("", func(c *Config) { c.Yahoo.Timeout = time.Second })
		require.NoError(t, err)
		assert.Equal(t, time.Second, cfg.Yahoo.Timeout)
		assert.Equal(t, DefaultYahooURL, cfg.Yahoo.BaseURL)
	})

	t.Run("override wins over file", func(t *testing.T) {
		path := writeConfig(t, "tickers: [gme]\nyahoo:\n  timeout: 5s\n")
		cfg, err := LoadAndValidate(path, func(c *Config) { c.Yahoo.Timeout = time.Minute })
		require.NoError(t, err)
		assert.Equal(t, time.Minute, cfg.Yahoo.Timeout)
		assert.Equal(t, []string{"gme"}, cfg.Tickers)
	})

	t.Run("override is validated", func(t *testing.T) {
		_, err := LoadAndValidate("", func(c *Config) { c.Slack.Channel = "C0LAN2Q65" })
		assert.ErrorContains(t, err, "validate config: slack: token and channel must be set together")
	})

	t.Run("file is validated", func(t *testing.T) {
		_, err := LoadAndValidate(writeConfig(t, "backend: bloomberg\n"))
		assert.ErrorContains(t, err, "unsupported backend")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{
			name:   "unsupported backend",
			modify: func(c *Config) { c.Backend = "bloomberg" },
			errMsg: `backend: unsupported backend "bloomberg"`,
		},
		{
			name:   "bad base url scheme",
			modify: func(c *Config) { c.Yahoo.BaseURL = "ftp://example.com" },
			errMsg: "yahoo.base_url",
		},
		{
			name:   "missing cookie url host",
			modify: func(c *Config) { c.Yahoo.CookieURL = "https://" },
			errMsg: "yahoo.cookie_url",
		},
		{
			name:   "negative timeout",
			modify: func(c *Config) { c.Yahoo.Timeout = -time.Second },
			errMsg: "yahoo.timeout",
		},
		{
			name:   "slack channel without token",
			modify: func(c *Config) { c.Slack.Channel = "C0LAN2Q65" },
			errMsg: "slack: token and channel must be set together",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), test.errMsg)
		})
	}
}
