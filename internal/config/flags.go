package config

import (
	"flag"
	"fmt"
	"time"
)

// parseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a remote store address (e.g. https://www.protectedtext.com/)
//	-t request timeout (e.g. "10s", "1m")
//	-d snapshot database DSN
//	-w watch interval (e.g. "30s"), 0 disables the watcher
//	-l log file path
//	-log-level zerolog level name
//	-c/-config json file path with configs
//
// The first positional argument, if any, is the site to open.
func parseFlags(args []string) (*StructuredConfig, error) {
	var address string
	var requestTimeout time.Duration
	var databaseDSN string
	var watchInterval time.Duration
	var logFile string
	var logLevel string
	var jsonConfigPath string

	fs := flag.NewFlagSet("protected-text", flag.ContinueOnError)
	fs.StringVar(&address, "a", "", "Remote store address")
	fs.DurationVar(&requestTimeout, "t", 0, "Request timeout (e.g., 10s, 1m)")
	fs.StringVar(&databaseDSN, "d", "", "Snapshot database DSN")
	fs.DurationVar(&watchInterval, "w", 0, "Remote change watch interval (e.g., 30s)")
	fs.StringVar(&logFile, "l", "", "Log file path")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogFile:  logFile,
			LogLevel: logLevel,
			Site:     fs.Arg(0),
		},
		Adapter: Adapter{
			HTTPAddress:    address,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			WatchInterval: watchInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
