package config

import "time"

// Config holds runtime settings for the FieldSync client core.
//
// Fields:
//   - BaseURL: scheme://host[:port] of the backend HTTP API.
//   - RequestTimeout: overall cap per API call.
//   - BootstrapTimeout: cap on the remote half of the anonymous bootstrap.
//   - ProbeTimeout: cap on the connectivity health probe.
//   - DatabaseDSN: SQLite DSN of the local session database.
//   - LogLevel: zap level name ("debug", "info", "warn", "error").
type Config struct {
	BaseURL          string
	RequestTimeout   time.Duration
	BootstrapTimeout time.Duration
	ProbeTimeout     time.Duration
	DatabaseDSN      string
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.BootstrapTimeout = 5 * time.Second
	c.ProbeTimeout = 5 * time.Second
	c.DatabaseDSN = "fieldsync.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
