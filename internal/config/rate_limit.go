package config

import "time"

// RateLimitConfig ограничение частоты запросов к /auth.
type RateLimitConfig struct {
	Enabled    bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Max        int           `yaml:"max" env:"RATE_LIMIT_MAX" env-default:"100"`
	Expiration time.Duration `yaml:"expiration" env:"RATE_LIMIT_WINDOW" env-default:"15m"`
}
