package config

import (
	"flag"
	"os"
	"time"

	"github.com/fieldsync/mobilecore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-b int      anonymous bootstrap timeout in seconds
//	-p int      connectivity probe timeout in seconds
//	-d string   SQLite DSN of the local session database
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-b", "-p", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	bootstrapTimeout := fs.Int("b", int(cfg.BootstrapTimeout.Seconds()), "anonymous bootstrap timeout (in seconds)")
	probeTimeout := fs.Int("p", int(cfg.ProbeTimeout.Seconds()), "connectivity probe timeout (in seconds)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite DSN of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.BootstrapTimeout = time.Duration(*bootstrapTimeout) * time.Second
	cfg.ProbeTimeout = time.Duration(*probeTimeout) * time.Second
}
