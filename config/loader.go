package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override adjusts a loaded config before it is validated, e.g. with values
// given on the command line.
type Override func(c *Config)

// Load reads a YAML config file. ${VAR} references are replaced with values
// from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadAndValidate builds the effective config: the file at path (or the
// defaults when path is empty), then overrides, then defaults for whatever
// is still unset. The result is validated as a whole.
func LoadAndValidate(path string, overrides ...Override) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	for _, override := range overrides {
		override(cfg)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
