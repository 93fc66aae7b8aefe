// Package config loads runtime configuration for the FieldSync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), with an optional .env file
//     loaded via godotenv.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-t int      request timeout (seconds)
//	-b int      anonymous bootstrap timeout (seconds)
//	-p int      connectivity probe timeout (seconds)
//	-d string   SQLite DSN of the local session database
//	-l string   log level
//
// Environment variables
//
//	FIELDSYNC_BASE_URL, FIELDSYNC_REQUEST_TIMEOUT,
//	FIELDSYNC_BOOTSTRAP_TIMEOUT, FIELDSYNC_PROBE_TIMEOUT,
//	FIELDSYNC_DATABASE_DSN, FIELDSYNC_LOG_LEVEL
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://api.fieldsync.dev",
//	  "request_timeout": "30s",
//	  "bootstrap_timeout": "5s",
//	  "probe_timeout": "5s",
//	  "database_dsn": "fieldsync.db",
//	  "log_level": "info"
//	}
//
// Primary API
//
//   - type Config                     — holds endpoint, timeout, storage, and logging settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
