package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Nutrition NutritionConfig `mapstructure:"nutrition"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLSEnabled   bool          `mapstructure:"tls_enabled"`
	CertFile     string        `mapstructure:"cert_file"`
	KeyFile      string        `mapstructure:"key_file"`
}

// StorageConfig selects and configures the assessment history store.
type StorageConfig struct {
	// Backend is "sqlite" or "postgres".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file location for the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
	// MigrationsPath holds SQL migrations for the postgres backend.
	MigrationsPath string `mapstructure:"migrations_path"`
	// RunMigrations applies pending migrations at startup (postgres only).
	RunMigrations bool `mapstructure:"run_migrations"`
}

// DatabaseConfig represents Postgres connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CacheConfig represents assessment result cache configuration.
// The LRU tier is always on; the Redis tier is enabled by setting a URL.
type CacheConfig struct {
	LRUSize      int           `mapstructure:"lru_size"`
	RedisEnabled bool          `mapstructure:"redis_enabled"`
	RedisURL     string        `mapstructure:"redis_url"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// NutritionConfig carries nutrition-scorer switches.
type NutritionConfig struct {
	// WeightUnit is "kg" or "lb". The upstream data source reported body
	// weight in kilograms on some clients and pounds on others; the lb
	// setting divides by 2.2 before computing protein per kilogram.
	WeightUnit string `mapstructure:"weight_unit"`
}

// RateLimitConfig represents per-client HTTP rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}
