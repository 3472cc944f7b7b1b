// Package config provides configuration management for the security
// operations service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the security operations service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Redis         RedisConfig         `mapstructure:"redis"`
	NATS          NATSConfig          `mapstructure:"nats"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Collaborators CollaboratorsConfig `mapstructure:"collaborators"`
	Log           LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RedisConfig holds Redis connection settings for incident storage.
type RedisConfig struct {
	URL        string `mapstructure:"url"`
	MaxRetries int    `mapstructure:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size"`
}

// NATSConfig holds broker settings for threat signal intake and event
// publishing.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
	Name    string `mapstructure:"name"`
}

// AuthConfig holds JWT validation settings.
type AuthConfig struct {
	AccessSecret string `mapstructure:"access_secret"`
}

// CollaboratorsConfig holds base URLs of the gateway services the posture
// scorer pulls from.
type CollaboratorsConfig struct {
	MetricsURL string `mapstructure:"metrics_url"`
	ThreatURL  string `mapstructure:"threat_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and environment variables.
// Environment variables use the SECOPS prefix with underscores, e.g.
// SECOPS_REDIS_URL.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("nats.name", "secops")

	v.SetDefault("auth.access_secret", "")

	v.SetDefault("collaborators.metrics_url", "http://localhost:8080")
	v.SetDefault("collaborators.threat_url", "http://localhost:8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file config
	v.SetEnvPrefix("SECOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.AccessSecret == "" {
		return nil, fmt.Errorf("auth.access_secret is required")
	}

	return &cfg, nil
}
