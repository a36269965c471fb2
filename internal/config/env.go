package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is the DTO for the environment stage. Fields are pre-seeded from
// the current config so absent variables keep the earlier layers' values.
type envConfig struct {
	APIBaseURL        string        `env:"ZB_API_BASE_URL"`
	DatabaseFile      string        `env:"ZB_DATABASE_FILE"`
	PopupPollInterval time.Duration `env:"ZB_POPUP_POLL_INTERVAL"`
}

func parseEnv(cfg *Config) {
	ec := envConfig{
		APIBaseURL:        cfg.APIBaseURL,
		DatabaseFile:      cfg.DatabaseFile,
		PopupPollInterval: cfg.PopupPollInterval,
	}
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = ec.APIBaseURL
	cfg.DatabaseFile = ec.DatabaseFile
	cfg.PopupPollInterval = ec.PopupPollInterval
}
