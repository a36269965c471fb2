// Package config loads runtime settings for the Zipboard client, layering
// defaults, an optional JSON file, environment variables, and command-line
// flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API.
//   - DatabaseFile: path of the local sqlite database.
//   - PopupPollInterval: how often an OAuth popup is checked for closure.
type Config struct {
	APIBaseURL        string
	DatabaseFile      string
	PopupPollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:4000"
	c.DatabaseFile = "zipboard.db"
	c.PopupPollInterval = 400 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
