// Package config loads catalog-bff configuration from config.yaml, .env and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Commerce CommerceConfig `mapstructure:"commerce"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Domain   DomainConfig   `mapstructure:"domain"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CommerceConfig holds commerce API configuration
type CommerceConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	OrganizationID    string        `mapstructure:"organization_id"`
	SiteID            string        `mapstructure:"site_id"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds cache TTLs. A zero TTL disables caching for that kind.
type CacheConfig struct {
	CategoryTTL      time.Duration `mapstructure:"category_ttl"`
	ProductSearchTTL time.Duration `mapstructure:"product_search_ttl"`
}

// DomainConfig holds the storefront domain used for local requests
type DomainConfig struct {
	Fallback string `mapstructure:"fallback"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// IsProduction reports whether the service runs with env=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadDotEnv loads variables from path into the process environment outside
// production. Values in the file override existing variables. A missing file
// is not an error.
func LoadDotEnv(path string) error {
	if strings.EqualFold(os.Getenv("ENV"), "production") {
		return nil
	}
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from an optional config.yaml in the given
// directories (default ".") with environment variable overrides.
// Keys map to variables by upper-casing and replacing '.' with '_'
// (commerce.base_url -> COMMERCE_BASE_URL); domain.fallback also reads DOMAIN.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"."}
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("domain.fallback", "DOMAIN_FALLBACK", "DOMAIN"); err != nil {
		return nil, fmt.Errorf("bind domain env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Cache.CategoryTTL < 0 || c.Cache.ProductSearchTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if c.Commerce.MaxRetries < 0 {
		return fmt.Errorf("invalid commerce.max_retries %d", c.Commerce.MaxRetries)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("commerce.base_url", "")
	v.SetDefault("commerce.organization_id", "")
	v.SetDefault("commerce.site_id", "")
	v.SetDefault("commerce.timeout", "10s")
	v.SetDefault("commerce.requests_per_second", 50)
	v.SetDefault("commerce.max_retries", 2)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.category_ttl", "30m")
	v.SetDefault("cache.product_search_ttl", "2m")

	v.SetDefault("domain.fallback", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
