// Package app содержит сценарии маркетплейса: питомцы, бизнесы, услуги и исполнители.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"walkydoggy/pkg/logger"
)

type options struct {
	now   func() time.Time
	newID func() string
}

// Option настраивает сценарии маркетплейса.
type Option func(*options)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator подменяет генератор имен объектов в хранилище фотографий.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fail логирует ошибку хранилища и оборачивает ее контекстом.
func fail(ctx context.Context, log *logger.Logger, msg, errCtx string, err error) error {
	log.Error(ctx, msg, zap.Error(err))
	return fmt.Errorf("%s: %w", errCtx, err)
}
