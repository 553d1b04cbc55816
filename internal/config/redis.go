package config

import (
	"fmt"
	"time"
)

// RedisConfig представляет конфигурацию для Redis.
type RedisConfig struct {
	Enabled         bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"true"`
	Host            string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password        string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB              int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize        int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdle         int           `yaml:"min_idle" env:"REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"REDIS_IDLE_TIMEOUT" env-default:"5m"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"REDIS_MAX_CONN_LIFETIME" env-default:"1h"`
	ProfileTTL      time.Duration `yaml:"profile_ttl" env:"REDIS_PROFILE_TTL" env-default:"10m"`
	FeaturedTTL     time.Duration `yaml:"featured_ttl" env:"REDIS_FEATURED_TTL" env-default:"5m"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
