package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole application configuration.
// It is populated from environment variables.
type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, test, production
	Port        string
	Version     string
	LogLevel    string

	// StrictNotFound answers 404 for missing posts instead of the
	// historical 500 (GET) and 204 (PUT, DELETE).
	StrictNotFound bool
}

type StorageConfig struct {
	URL     string // DATABASE_URL, its scheme selects the driver
	TestURL string // TEST_DATABASE_URL, used by integration tests

	Timeout        time.Duration // bound on one storage call
	ConnectTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DatabaseConfig tunes the PostgreSQL pool when the postgres driver is used.
type DatabaseConfig struct {
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// Driver names a storage backend.
type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverBolt     Driver = "bolt"
	DriverMemory   Driver = "memory"
)

const (
	DefaultDatabaseURL     = "mongodb://localhost/blog-app"
	DefaultTestDatabaseURL = "mongodb://localhost/test-blog-app"
	DefaultPort            = "8080"
)

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Blog API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("PORT", DefaultPort),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			StrictNotFound: getEnvBool("APP_STRICT_NOT_FOUND", false),
		},
		Storage: StorageConfig{
			URL:            getEnv("DATABASE_URL", DefaultDatabaseURL),
			TestURL:        getEnv("TEST_DATABASE_URL", DefaultTestDatabaseURL),
			Timeout:        getEnvDuration("STORAGE_TIMEOUT", 10*time.Second),
			ConnectTimeout: getEnvDuration("STORAGE_CONNECT_TIMEOUT", 5*time.Second),
			MaxRetries:     getEnvInt("STORAGE_MAX_RETRIES", 3),
			RetryDelay:     getEnvDuration("STORAGE_RETRY_DELAY", 500*time.Millisecond),
		},
		Database: DatabaseConfig{
			MaxConns:          getEnvInt("DB_MAX_CONNS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNS", 0),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the values Load cannot default its way out of.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.App.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 0 and 65535, got %q", c.App.Port)
	}

	if _, err := c.Storage.Driver(); err != nil {
		return err
	}

	if c.Storage.MaxRetries < 1 {
		return fmt.Errorf("STORAGE_MAX_RETRIES must be at least 1")
	}

	// The pool sizes are int32 in pgxpool
	if c.Database.MaxConns < 1 || c.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and %d, got %d", math.MaxInt32, c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must not be negative, got %d", c.Database.MinConns)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.App.Port
}

// Driver picks the storage backend from the URL scheme.
func (s StorageConfig) Driver() (Driver, error) {
	return DriverFor(s.URL)
}

// DriverFor picks the storage backend from a connection string scheme.
func DriverFor(rawURL string) (Driver, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "bolt":
		return DriverBolt, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
	}
}

// BoltPath returns the file path of a bolt:// URL.
// bolt:///var/lib/blog.db is absolute, bolt://data/blog.db is relative.
func BoltPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid bolt url: %w", err)
	}
	path := u.Host + u.Path
	if path == "" {
		return "", fmt.Errorf("bolt url %q has no file path", rawURL)
	}
	return path, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
