package config

import (
	"errors"
	"time"
)

// Поддерживаемые провайдеры почты.
const (
	EmailProviderSMTP = "smtp"
	EmailProviderLog  = "log"
)

// ErrUnknownEmailProvider неизвестное значение EMAIL_SERVICE.
var ErrUnknownEmailProvider = errors.New("unknown email provider")

// EmailConfig настройки отправки писем.
type EmailConfig struct {
	Provider string        `yaml:"provider" env:"EMAIL_SERVICE" env-default:"log"`
	Host     string        `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"SMTP_PORT" env-default:"1025"`
	Username string        `yaml:"username" env:"SMTP_USER" env-default:""`
	Password string        `yaml:"password" env:"SMTP_PASSWORD" env-default:""`
	From     string        `yaml:"from" env:"EMAIL_FROM" env-default:"noreply@walkydoggy.com"`
	Timeout  time.Duration `yaml:"timeout" env:"EMAIL_TIMEOUT" env-default:"10s"`
}

// Validate проверяет провайдера.
func (c *EmailConfig) Validate() error {
	switch c.Provider {
	case EmailProviderSMTP, EmailProviderLog:
		return nil
	default:
		return ErrUnknownEmailProvider
	}
}
