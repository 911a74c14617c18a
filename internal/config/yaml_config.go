package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig is the optional file-based configuration. Field aliases extend
// the schema resolver's candidate lists, which is easier to maintain in a
// file than in env vars when exports rename columns.
type YAMLConfig struct {
	FuzzyThreshold *int                `yaml:"fuzzy_threshold,omitempty"`
	FieldAliases   map[string][]string `yaml:"field_aliases,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file. Path comes from the
// KWINTEL_CONFIG env var, defaulting to "kwintel.yaml". Returns nil without
// error when the file does not exist; the file is optional.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("KWINTEL_CONFIG", "kwintel.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply overlays the YAML settings onto the env-derived config.
func (y *YAMLConfig) Apply(c *Config) {
	if y == nil {
		return
	}
	if y.FuzzyThreshold != nil {
		c.FuzzyThreshold = *y.FuzzyThreshold
	}
}
