// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Presets  PresetsConfig
	Extract  ExtractConfig
	View     ViewConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s).
	// It must outlast the extraction timeout so PDF uploads can finish.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// UploadConfig holds document upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of parallel uploads (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for an upload slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration for a single upload operation (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`

	// Dir is where uploaded documents are stored for extraction (default: uploads)
	Dir string `env:"UPLOAD_DIR" default:"uploads"`

	// TTL is how long an upload stays browsable after its last use (default: 1h)
	TTL time.Duration `env:"UPLOAD_TTL" default:"1h"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables X-API-Key authentication on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// PresetsConfig selects and tunes the saved filter store.
type PresetsConfig struct {
	// Driver is one of memory, file, badger, sqlite, postgres (default: file)
	Driver string `env:"PRESETS_DRIVER" default:"file"`

	// Path is the file, directory or database file used by the file,
	// badger and sqlite drivers. Empty picks a per-driver default under data/.
	Path string `env:"PRESETS_PATH"`

	// Key names the single slot holding the preset list (default: filterSets)
	Key string `env:"PRESETS_KEY" default:"filterSets"`

	// DatabaseURL is the PostgreSQL connection string for the postgres driver.
	// Supports both PRESETS_DATABASE_URL and DATABASE_URL.
	DatabaseURL string `env:"PRESETS_DATABASE_URL" envAlt:"DATABASE_URL"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `env:"PRESETS_DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"PRESETS_DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"PRESETS_DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"PRESETS_DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ExtractConfig points at the external PDF table extraction service.
type ExtractConfig struct {
	// ServiceURL is the base URL of the extraction service (default: http://localhost:8000)
	ServiceURL string `env:"EXTRACT_SERVICE_URL" envAlt:"PYTHON_SERVICE_URL" default:"http://localhost:8000"`

	// Timeout bounds a single extraction call (default: 60s)
	Timeout time.Duration `env:"EXTRACT_TIMEOUT" default:"60s"`
}

// ViewConfig holds the locale knobs of the table view engine.
type ViewConfig struct {
	// DateOrder reads ambiguous NN/NN/YYYY dates: month-first or day-first (default: month-first)
	DateOrder string `env:"VIEW_DATE_ORDER" default:"month-first"`

	// Locale is the BCP-47 tag used for sort collation (default: und)
	Locale string `env:"VIEW_LOCALE" default:"und"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
