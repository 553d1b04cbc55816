// Package config загружает структуры конфигурации через cleanenv.
package config

import (
	"context"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"walkydoggy/pkg/logger"
)

const (
	msgLoadingFromFile = "reading configuration file"
	msgLoadingFromEnv  = "reading configuration from environment"

	errReadConfigFile = "failed to read configuration file"
	errReadEnv        = "failed to read environment"
)

// Load заполняет T из файла path (yaml, json, toml или env) и переменных окружения.
// При пустом path используются только переменные окружения и значения env-default.
func Load[T any](ctx context.Context, path string) (*T, error) {
	log := logger.Log(ctx)

	var cfg T
	if path != "" {
		log.Debug(ctx, msgLoadingFromFile, zap.String("path", path))
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s %q: %w", errReadConfigFile, path, err)
		}
		return &cfg, nil
	}

	log.Debug(ctx, msgLoadingFromEnv)
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", errReadEnv, err)
	}
	return &cfg, nil
}

// Usage возвращает описание переменных окружения для T.
func Usage[T any]() (string, error) {
	var cfg T
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return "", fmt.Errorf("describe configuration: %w", err)
	}
	return text, nil
}
