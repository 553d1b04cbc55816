package config

import "strings"

// AppConfig общие настройки приложения.
type AppConfig struct {
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"development"`
	ClientURL   string `yaml:"client_url" env:"CLIENT_URL" env-default:"http://localhost:5173"`
	BrandName   string `yaml:"brand_name" env:"APP_BRAND_NAME" env-default:"WalkyDoggy"`
}

// IsProduction сообщает, запущен ли сервис в production.
func (a *AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}
