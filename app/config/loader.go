package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the editorial configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads, validates and defaults the YAML configuration file
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *Config) {
	if config.Persona == "" {
		config.Persona = "You are the editor of an underground but professional tech channel."
	}
}

// validate validates the configuration
func (l *Loader) validate(config *Config) error {
	if len(config.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}

	for i, feed := range config.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feed at index %d has no name", i)
		}
		if feed.URL == "" {
			return fmt.Errorf("feed %q has no URL", feed.Name)
		}
	}

	if len(config.Channels) == 0 {
		return fmt.Errorf("channel map is required")
	}
	if _, ok := config.Channels[MainChannel]; !ok {
		return fmt.Errorf("channel map must contain a %q destination", MainChannel)
	}

	for key, handle := range config.Channels {
		if handle == "" {
			return fmt.Errorf("channel %q has an empty destination", key)
		}
		if !strings.HasPrefix(handle, "@") && !isNumeric(handle) {
			return fmt.Errorf("channel %q destination must be an @handle or a numeric chat id, got %q", key, handle)
		}
	}

	return nil
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
