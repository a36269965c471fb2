package config

import (
	"encoding/json"
	"os"

	"github.com/zipboard/zipboard/internal/flagx"
	"github.com/zipboard/zipboard/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the file can specify intervals either as strings like
// "400ms" or as integer nanoseconds.
type JSONConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	DatabaseFile      string         `json:"database_file"`
	PopupPollInterval timex.Duration `json:"popup_poll_interval"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. No flag means no JSON stage. Read or unmarshal errors
// panic; the config is load-once at startup and a broken file should stop
// the program.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabaseFile != "" {
		cfg.DatabaseFile = jc.DatabaseFile
	}
	if jc.PopupPollInterval.Duration > 0 {
		cfg.PopupPollInterval = jc.PopupPollInterval.Duration
	}
}
