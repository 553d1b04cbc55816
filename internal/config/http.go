package config

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig настройки HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"HTTP_PORT" env-default:"5000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	BodyLimit    int           `yaml:"body_limit" env:"HTTP_BODY_LIMIT" env-default:"10485760"`
	CORSOrigins  string        `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-default:""`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetCORSOrigins возвращает список разрешенных источников, по умолчанию только fallback.
func (c *HTTPConfig) GetCORSOrigins(fallback string) []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return []string{fallback}
	}
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
