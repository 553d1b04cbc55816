package config

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Ошибки проверки секретов.
var (
	ErrEmptyAccessSecret  = errors.New("JWT_SECRET must be set")
	ErrEmptyRefreshSecret = errors.New("JWT_REFRESH_SECRET must be set")
	ErrSameSecrets        = errors.New("access and refresh secrets must differ")
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// JWTConfig содержит настройки для JWT токенов.
type JWTConfig struct {
	AccessSecret    string `yaml:"access_secret" env:"JWT_SECRET"`
	AccessTokenTTL  string `yaml:"access_token_ttl" env:"JWT_EXPIRES_IN" env-default:"15m"`
	RefreshSecret   string `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl" env:"JWT_REFRESH_EXPIRES_IN" env-default:"7d"`
	BCryptCost      int    `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// GetAccessTokenTTL возвращает время жизни access токена.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	return parseTTL(c.AccessTokenTTL, defaultAccessTTL)
}

// GetRefreshTokenTTL возвращает время жизни refresh токена.
func (c *JWTConfig) GetRefreshTokenTTL() time.Duration {
	return parseTTL(c.RefreshTokenTTL, defaultRefreshTTL)
}

// Validate проверяет, что секреты заданы и различаются.
func (c *JWTConfig) Validate() error {
	if c.AccessSecret == "" {
		return ErrEmptyAccessSecret
	}
	if c.RefreshSecret == "" {
		return ErrEmptyRefreshSecret
	}
	if c.AccessSecret == c.RefreshSecret {
		return ErrSameSecrets
	}
	return nil
}

// parseTTL понимает формат time.ParseDuration и дни вида "7d".
func parseTTL(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return fallback
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
