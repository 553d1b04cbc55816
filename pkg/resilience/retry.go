package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"walkydoggy/pkg/logger"
)

// Константы для логирования.
const (
	LogRetryAttempt     = "retry attempt"
	LogRetrySuccess     = "retry succeeded"
	LogRetryMaxAttempts = "retry max attempts reached"
)

// RetryConfig содержит настройки повторных попыток.
type RetryConfig struct {
	// MaxAttempts - количество попыток, включая первую.
	MaxAttempts int
	// InitialBackoff - задержка перед второй попыткой, далее растет экспоненциально.
	InitialBackoff time.Duration
	// MaxBackoff - предел задержки.
	MaxBackoff time.Duration
	// ShouldRetry решает, стоит ли повторять вызов после ошибки.
	ShouldRetry func(error) bool
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		ShouldRetry:    defaultShouldRetry,
	}
}

func defaultShouldRetry(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry выполняет функцию с повторными попытками.
type Retry struct {
	name   string
	config RetryConfig
}

// NewRetry создает новый экземпляр retry механизма.
func NewRetry(name string, config RetryConfig) *Retry {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Millisecond
	}
	if config.ShouldRetry == nil {
		config.ShouldRetry = defaultShouldRetry
	}
	return &Retry{name: name, config: config}
}

func (r *Retry) backoff() retry.Backoff {
	b := retry.NewExponential(r.config.InitialBackoff)
	if r.config.MaxBackoff > 0 {
		b = retry.WithCappedDuration(r.config.MaxBackoff, b)
	}
	return retry.WithMaxRetries(uint64(r.config.MaxAttempts-1), b) //nolint:gosec
}

// Execute выполняет операцию, повторяя ее при ошибках, которые допускает ShouldRetry.
func (r *Retry) Execute(ctx context.Context, operation func(context.Context) error) error {
	log := logger.Log(ctx).With(zap.String("retry", r.name))

	attempts := 0
	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		attempts++
		err := operation(ctx)
		if err == nil {
			return nil
		}
		if !r.config.ShouldRetry(err) {
			return err
		}
		if attempts < r.config.MaxAttempts {
			log.Info(ctx, LogRetryAttempt, zap.Int("attempt", attempts), zap.Error(err))
		}
		return retry.RetryableError(err)
	})

	switch {
	case err == nil && attempts > 1:
		log.Info(ctx, LogRetrySuccess, zap.Int("attempts", attempts))
	case err != nil && attempts >= r.config.MaxAttempts:
		log.Warn(ctx, LogRetryMaxAttempts, zap.Int("attempts", attempts), zap.Error(err))
	}
	return err //nolint:wrapcheck
}
