// Package config loads tool-level configuration: where the wiki is, where
// the contest data files live and where output goes. Contest rules
// themselves come from the parameters file, which has its own loader in
// the contest package.
package config

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingBaseURL indicates no wiki base URL is configured.
	ErrMissingBaseURL = errors.New("wiki base URL must be set")

	// ErrMissingDataFile indicates one of the contest data file paths is
	// empty.
	ErrMissingDataFile = errors.New("contest data file path must be set")

	// ErrInvalidTimeout indicates a non-positive HTTP timeout.
	ErrInvalidTimeout = errors.New("HTTP timeout must be positive")
)

// WikiConfig locates the wiki and tunes its client.
type WikiConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FilesConfig locates the contest data files.
type FilesConfig struct {
	Parameters  string `mapstructure:"parameters"`
	Countries   string `mapstructure:"countries"`
	Recommended string `mapstructure:"recommended"`
}

// OutputConfig locates the run artifacts.
type OutputConfig struct {
	Result string `mapstructure:"result"`
	Plot   string `mapstructure:"plot"`
}

// CacheConfig controls the history-feed cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Config is the full tool configuration.
type Config struct {
	Wiki   WikiConfig   `mapstructure:"wiki"`
	Files  FilesConfig  `mapstructure:"files"`
	Output OutputConfig `mapstructure:"output"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// Validate checks the configuration eagerly, before any network access.
func (c *Config) Validate() error {
	if c.Wiki.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.Wiki.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Wiki.Timeout)
	}

	files := map[string]string{
		"files.parameters":  c.Files.Parameters,
		"files.countries":   c.Files.Countries,
		"files.recommended": c.Files.Recommended,
	}
	for key, path := range files {
		if path == "" {
			return fmt.Errorf("%w: %s", ErrMissingDataFile, key)
		}
	}

	return nil
}
