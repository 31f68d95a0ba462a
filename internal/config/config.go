package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DATABASE_HOST"`
	Port            string `mapstructure:"DATABASE_PORT"`
	Name            string `mapstructure:"DATABASE_NAME"`
	User            string `mapstructure:"DATABASE_USER"`
	Password        string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host            string `mapstructure:"REDIS_HOST"`
	Port            string `mapstructure:"REDIS_PORT"`
	Password        string `mapstructure:"REDIS_PASSWORD"`
	DB              int    `mapstructure:"REDIS_DB"`
	BalanceCacheTTL string `mapstructure:"BALANCE_CACHE_TTL"`
}

type SchedulerConfig struct {
	Cron     string `mapstructure:"SCHEDULER_CRON"`
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
	LockTTL  string `mapstructure:"SCHEDULER_LOCK_TTL"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "rentease_engine")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BALANCE_CACHE_TTL", "24h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	// nightly pass at 01:00, after the platform's own midnight jobs
	viper.SetDefault("SCHEDULER_CRON", "0 0 1 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Manila")
	viper.SetDefault("SCHEDULER_LOCK_TTL", "10m")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST+DATABASE_NAME is required")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	for name, value := range map[string]string{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"DATABASE_CONN_MAX_LIFETIME": c.Database.ConnMaxLifetime,
		"BALANCE_CACHE_TTL":          c.Redis.BalanceCacheTTL,
		"SCHEDULER_LOCK_TTL":         c.Scheduler.LockTTL,
		"HEALTH_CHECK_TIMEOUT":       c.Health.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", name, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// DSN returns the postgres connection string, preferring DATABASE_URL.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetConnMaxLifetime returns the database connection lifetime as duration
func (c *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	lifetime, _ := time.ParseDuration(c.ConnMaxLifetime)
	return lifetime
}

// GetBalanceCacheTTL returns the balance cache expiry as duration
func (c *RedisConfig) GetBalanceCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.BalanceCacheTTL)
	return ttl
}

// GetLocation returns the business timezone all billing periods are
// evaluated in. Validate has already checked the zone exists.
func (c *SchedulerConfig) GetLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Timezone)
	return loc
}

// GetLockTTL returns the scheduler lock expiry as duration
func (c *SchedulerConfig) GetLockTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.LockTTL)
	return ttl
}

// GetReadTimeout returns the HTTP read timeout as duration
func (c *ServerConfig) GetReadTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.ReadTimeout)
	return timeout
}

// GetWriteTimeout returns the HTTP write timeout as duration
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.WriteTimeout)
	return timeout
}

// GetHealthTimeout returns the health check timeout as duration
func (c *HealthConfig) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Timeout)
	return timeout
}
