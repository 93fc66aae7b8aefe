package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig mirrors the Config fields settable from the environment.
type envConfig struct {
	BaseURL          string        `env:"FIELDSYNC_BASE_URL"`
	RequestTimeout   time.Duration `env:"FIELDSYNC_REQUEST_TIMEOUT"`
	BootstrapTimeout time.Duration `env:"FIELDSYNC_BOOTSTRAP_TIMEOUT"`
	ProbeTimeout     time.Duration `env:"FIELDSYNC_PROBE_TIMEOUT"`
	DatabaseDSN      string        `env:"FIELDSYNC_DATABASE_DSN"`
	LogLevel         string        `env:"FIELDSYNC_LOG_LEVEL"`
}

// parseEnv overlays Config with values from the process environment,
// loading a .env file first if one is present in the working directory.
// Unset variables leave the corresponding Config field untouched.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BaseURL != "" {
		cfg.BaseURL = ec.BaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.BootstrapTimeout != 0 {
		cfg.BootstrapTimeout = ec.BootstrapTimeout
	}
	if ec.ProbeTimeout != 0 {
		cfg.ProbeTimeout = ec.ProbeTimeout
	}
	if ec.DatabaseDSN != "" {
		cfg.DatabaseDSN = ec.DatabaseDSN
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
