package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/nanzhong/shorts/market"
)

const (
	BackendYahoo = "yahoo"

	DefaultBackend   = BackendYahoo
	DefaultYahooURL  = market.DefaultYahooURL
	DefaultCookieURL = market.DefaultYahooCookieURL
	DefaultTimeout   = 30 * time.Second
)

type Config struct {
	Tickers []string    `yaml:"tickers"`
	Backend string      `yaml:"backend"`
	Yahoo   YahooConfig `yaml:"yahoo"`
	Slack   SlackConfig `yaml:"slack"`
}

type YahooConfig struct {
	BaseURL   string        `yaml:"base_url"`
	CookieURL string        `yaml:"cookie_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Modules   []string      `yaml:"modules"`
}

// SlackConfig enables posting a summary to a channel when both fields are
// set.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.Channel != ""
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Yahoo.BaseURL == "" {
		c.Yahoo.BaseURL = DefaultYahooURL
	}
	if c.Yahoo.CookieURL == "" {
		c.Yahoo.CookieURL = DefaultCookieURL
	}
	if c.Yahoo.Timeout == 0 {
		c.Yahoo.Timeout = DefaultTimeout
	}
	if len(c.Yahoo.Modules) == 0 {
		c.Yahoo.Modules = append([]string(nil), market.DefaultModules...)
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Backend != BackendYahoo {
		errs = append(errs, fmt.Errorf("backend: unsupported backend %q", c.Backend))
	}
	if err := validateURL(c.Yahoo.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("yahoo.base_url: %w", err))
	}
	if err := validateURL(c.Yahoo.CookieURL); err != nil {
		errs = append(errs, fmt.Errorf("yahoo.cookie_url: %w", err))
	}
	if c.Yahoo.Timeout < 0 {
		errs = append(errs, errors.New("yahoo.timeout: must not be negative"))
	}
	if (c.Slack.Token == "") != (c.Slack.Channel == "") {
		errs = append(errs, errors.New("slack: token and channel must be set together"))
	}

	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
