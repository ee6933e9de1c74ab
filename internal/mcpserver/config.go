package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Model cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// List tool defaults.
	ListLimit int
	MaxLimit  int

	// Input limits.
	MaxDocumentSize int64
	AllowPrivateIPs bool

	// Validate tool defaults.
	ValidateStrict     bool
	ValidateNoWarnings bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASIR_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASIR_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASIR_CACHE_MAX_SIZE", 10),
		CacheTTL:           envDuration("OASIR_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASIR_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("OASIR_LIST_LIMIT", 100),
		MaxLimit:           envInt("OASIR_MAX_LIMIT", 1000),
		MaxDocumentSize:    envInt64("OASIR_MAX_DOCUMENT_SIZE", 10*1024*1024),
		AllowPrivateIPs:    envBool("OASIR_ALLOW_PRIVATE_IPS", false),
		ValidateStrict:     envBool("OASIR_VALIDATE_STRICT", false),
		ValidateNoWarnings: envBool("OASIR_VALIDATE_NO_WARNINGS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
