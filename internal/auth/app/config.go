package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds everything the server needs to run. Values are resolved in
// three layers: built-in defaults, then an optional TOML file, then
// environment variables. Environment wins.
type Config struct {
	Issuer string `toml:"issuer"` // External base URL, used in metadata and logs
	Host   string `toml:"host"`   // Listen address (default: all interfaces)
	Port   int    `toml:"port"`   // HTTP server port (default: 9000)

	Env       string `toml:"env"`        // Environment (dev, staging, prod) (default: dev)
	LogLevel  string `toml:"log_level"`  // Log level (debug, info, warn, error) (default: info)
	LogFormat string `toml:"log_format"` // Log format (json, text) (default: json)

	StoreDriver  string `toml:"store_driver"`  // memory or sqlite (default: memory)
	DatabaseFile string `toml:"database_file"` // SQLite file path (default: ./authentic.db)

	Username     string `toml:"username"`      // Accepted login username (default: fps)
	Password     string `toml:"password"`      // Accepted login password (default: fps)
	PasswordHash string `toml:"password_hash"` // argon2id hash; overrides Password when set

	Scopes []string `toml:"scopes"` // Scopes granted on authorization (default: ["user"])

	CodeTTL             time.Duration `toml:"code_ttl"`       // Authorization code lifetime (default: 5m)
	AccessTTL           time.Duration `toml:"access_ttl"`     // Access token lifetime (default: 1h)
	ShutdownGracePeriod time.Duration `toml:"shutdown_grace"` // Graceful shutdown timeout (default: 10s)
}

func defaultConfig() Config {
	return Config{
		Issuer:              "http://localhost:9000",
		Host:                "",
		Port:                9000,
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		StoreDriver:         "memory",
		DatabaseFile:        "authentic.db",
		Username:            "fps",
		Password:            "fps",
		Scopes:              []string{"user"},
		CodeTTL:             5 * time.Minute,
		AccessTTL:           time.Hour,
		ShutdownGracePeriod: 10 * time.Second,
	}
}

// LoadConfig resolves the configuration. The TOML file path comes from
// AUTHENTIC_CONFIG; a missing file is only an error when the path was
// explicitly set.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("AUTHENTIC_CONFIG"); path != "" {
		if err := loadConfigFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Issuer = getEnvOrDefault("AUTHENTIC_ISSUER", cfg.Issuer)
	cfg.Host = getEnvOrDefault("AUTHENTIC_HOST", cfg.Host)
	cfg.Port = getEnvIntOrDefault("AUTHENTIC_PORT", cfg.Port)
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.StoreDriver = getEnvOrDefault("AUTHENTIC_STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseFile = getEnvOrDefault("AUTHENTIC_DATABASE_FILE", cfg.DatabaseFile)
	cfg.Username = getEnvOrDefault("AUTHENTIC_USERNAME", cfg.Username)
	cfg.Password = getEnvOrDefault("AUTHENTIC_PASSWORD", cfg.Password)
	cfg.PasswordHash = getEnvOrDefault("AUTHENTIC_PASSWORD_HASH", cfg.PasswordHash)
	cfg.CodeTTL = getEnvDurationOrDefault("AUTHENTIC_CODE_TTL", cfg.CodeTTL)
	cfg.AccessTTL = getEnvDurationOrDefault("AUTHENTIC_ACCESS_TTL", cfg.AccessTTL)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	if scopes := os.Getenv("AUTHENTIC_SCOPES"); scopes != "" {
		cfg.Scopes = strings.Fields(scopes)
	}
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Username == "" {
		return fmt.Errorf("username must not be empty")
	}
	if c.Password == "" && c.PasswordHash == "" {
		return fmt.Errorf("either password or password_hash must be set")
	}
	return nil
}

// Addr is the host:port pair for the HTTP listener.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are treated as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
