// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides validation and defaults for all tunables of the coordinator
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Remote   RemoteConfig   `json:"remote"`
	Cache    CacheConfig    `json:"cache"`
	Sync     SyncConfig     `json:"sync"`
	Events   EventsConfig   `json:"events"`
	LogLevel string         `json:"log_level"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"8400"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `json:"host" env:"DB_HOST" default:"localhost"`
	Port     string `json:"port" env:"DB_PORT" default:"5432"`
	User     string `json:"user" env:"DB_USER" default:"article_store"`
	Password string `json:"password" env:"DB_PASSWORD"`
	Name     string `json:"name" env:"DB_NAME" default:"article_store"`
	SSLMode  string `json:"ssl_mode" env:"DB_SSL_MODE" default:"disable"`
}

type RemoteConfig struct {
	BaseURL        string        `json:"base_url" env:"REMOTE_BASE_URL"`
	ConnectTimeout time.Duration `json:"connect_timeout" env:"REMOTE_CONNECT_TIMEOUT" default:"15s"`
	RequestTimeout time.Duration `json:"request_timeout" env:"REMOTE_REQUEST_TIMEOUT" default:"30s"`
	UserAgent      string        `json:"user_agent" env:"REMOTE_USER_AGENT" default:"article-store/1.0"`
}

type CacheConfig struct {
	ExistenceTTL      time.Duration `json:"existence_ttl" env:"CACHE_EXISTENCE_TTL" default:"60s"`
	ExistenceCapacity int           `json:"existence_capacity" env:"CACHE_EXISTENCE_CAPACITY" default:"4096"`
	DedupTTL          time.Duration `json:"dedup_ttl" env:"CACHE_DEDUP_TTL" default:"10m"`
	DedupCapacity     int           `json:"dedup_capacity" env:"CACHE_DEDUP_CAPACITY" default:"4096"`
}

type SyncConfig struct {
	Concurrency int `json:"concurrency" env:"SYNC_CONCURRENCY" default:"5"`
	ChunkSize   int `json:"chunk_size" env:"SYNC_CHUNK_SIZE" default:"25"`
}

type EventsConfig struct {
	RedisURL  string `json:"redis_url" env:"EVENTS_REDIS_URL"`
	StreamKey string `json:"stream_key" env:"EVENTS_STREAM_KEY" default:"article-store:events"`
	Enabled   bool   `json:"enabled" env:"EVENTS_ENABLED" default:"false"`
}

// ConnString builds the pgx connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	var err error

	if cfg.Server.Port, err = intEnv("SERVER_PORT", 8400); err != nil {
		return err
	}
	if cfg.Server.ShutdownTimeout, err = durationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}

	cfg.Database.Host = stringEnv("DB_HOST", "localhost")
	cfg.Database.Port = stringEnv("DB_PORT", "5432")
	cfg.Database.User = stringEnv("DB_USER", "article_store")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = stringEnv("DB_NAME", "article_store")
	cfg.Database.SSLMode = stringEnv("DB_SSL_MODE", "disable")

	cfg.Remote.BaseURL = os.Getenv("REMOTE_BASE_URL")
	if cfg.Remote.ConnectTimeout, err = durationEnv("REMOTE_CONNECT_TIMEOUT", 15*time.Second); err != nil {
		return err
	}
	if cfg.Remote.RequestTimeout, err = durationEnv("REMOTE_REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	cfg.Remote.UserAgent = stringEnv("REMOTE_USER_AGENT", "article-store/1.0")

	if cfg.Cache.ExistenceTTL, err = durationEnv("CACHE_EXISTENCE_TTL", 60*time.Second); err != nil {
		return err
	}
	if cfg.Cache.ExistenceCapacity, err = intEnv("CACHE_EXISTENCE_CAPACITY", 4096); err != nil {
		return err
	}
	if cfg.Cache.DedupTTL, err = durationEnv("CACHE_DEDUP_TTL", 10*time.Minute); err != nil {
		return err
	}
	if cfg.Cache.DedupCapacity, err = intEnv("CACHE_DEDUP_CAPACITY", 4096); err != nil {
		return err
	}

	if cfg.Sync.Concurrency, err = intEnv("SYNC_CONCURRENCY", 5); err != nil {
		return err
	}
	if cfg.Sync.ChunkSize, err = intEnv("SYNC_CHUNK_SIZE", 25); err != nil {
		return err
	}

	cfg.Events.RedisURL = os.Getenv("EVENTS_REDIS_URL")
	cfg.Events.StreamKey = stringEnv("EVENTS_STREAM_KEY", "article-store:events")
	if cfg.Events.Enabled, err = boolEnv("EVENTS_ENABLED", false); err != nil {
		return err
	}

	cfg.LogLevel = stringEnv("LOG_LEVEL", "info")

	return nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Sync.Concurrency <= 0 {
		return fmt.Errorf("sync concurrency must be positive: %d", cfg.Sync.Concurrency)
	}
	if cfg.Sync.ChunkSize <= 0 {
		return fmt.Errorf("sync chunk size must be positive: %d", cfg.Sync.ChunkSize)
	}
	if cfg.Cache.ExistenceTTL <= 0 || cfg.Cache.DedupTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if cfg.Cache.ExistenceCapacity <= 0 || cfg.Cache.DedupCapacity <= 0 {
		return fmt.Errorf("cache capacities must be positive")
	}
	if cfg.Remote.ConnectTimeout <= 0 || cfg.Remote.RequestTimeout <= 0 {
		return fmt.Errorf("remote timeouts must be positive")
	}
	if cfg.Events.Enabled && cfg.Events.RedisURL == "" {
		return fmt.Errorf("EVENTS_REDIS_URL is required when events are enabled")
	}

	return nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, v)
	}

	return b, nil
}
