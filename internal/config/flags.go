package config

import (
	"flag"
	"os"
	"time"

	"github.com/zipboard/zipboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   base URL of the backend API (default from Config)
//	-d string   path of the local database file (default from Config)
//	-p int      popup liveness poll interval in milliseconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "b", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabaseFile, "d", cfg.DatabaseFile, "path of the local database file")
	pollMillis := fs.Int("p", int(cfg.PopupPollInterval.Milliseconds()), "popup poll interval (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PopupPollInterval = time.Duration(*pollMillis) * time.Millisecond
}
