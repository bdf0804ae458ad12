package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Search    SearchConfig    `mapstructure:"search"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds search cache configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL      string        `mapstructure:"redis_url"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxEntries    int           `mapstructure:"max_entries"` // 0 = unbounded
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// SearchConfig holds matching and catalog configuration
type SearchConfig struct {
	DefaultMatchThreshold int    `mapstructure:"default_match_threshold"`
	MaxSubstitutions      int    `mapstructure:"max_substitutions"`
	SynonymsFile          string `mapstructure:"synonyms_file"` // empty = built-in table
	CatalogFile           string `mapstructure:"catalog_file"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cookbook/")

	// Environment variable settings: COOKBOOK_CACHE_TTL -> cache.ttl
	v.SetEnvPrefix("COOKBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can bind it.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.sweep_interval", "1m")
	v.SetDefault("cache.max_entries", 512)
	v.SetDefault("cache.key_prefix", "cookbook")

	// Search defaults
	v.SetDefault("search.default_match_threshold", 70)
	v.SetDefault("search.max_substitutions", 5)
	v.SetDefault("search.synonyms_file", "")
	v.SetDefault("search.catalog_file", "catalog.yaml")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis' (set COOKBOOK_CACHE_REDIS_URL)")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %s", config.Cache.TTL)
	}

	if config.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must not be negative, got: %d", config.Cache.MaxEntries)
	}

	// 0 means unset to the search service; filters may still ask for 0
	if t := config.Search.DefaultMatchThreshold; t < 1 || t > 100 {
		return fmt.Errorf("search default_match_threshold must be within 1..100, got: %d", t)
	}

	if config.Search.MaxSubstitutions <= 0 {
		return fmt.Errorf("search max_substitutions must be positive, got: %d", config.Search.MaxSubstitutions)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	return nil
}
