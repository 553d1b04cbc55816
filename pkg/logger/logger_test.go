package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"walkydoggy/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "invalid", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/"+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}
}

func TestLoggerAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	ctx := logger.NewRequestIDContext(context.Background(), "req-42")
	log.Info(ctx, "with id", zap.String("k", "v"))
	log.Info(context.Background(), "without id")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "req-42", entries[0].ContextMap()[logger.RequestID])
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	_, has := entries[1].ContextMap()[logger.RequestID]
	assert.False(t, has)
}

func TestWithRequestID(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	assert.Same(t, log, log.WithRequestID(context.Background()))

	ctx := logger.NewRequestIDContext(context.Background(), "abc")
	assert.NotSame(t, log, log.WithRequestID(ctx))
}

func TestNewRequestIDContextGeneratesID(t *testing.T) {
	ctx := logger.NewRequestIDContext(context.Background(), "")

	id, ok := logger.GetRequestID(ctx)
	require.True(t, ok)
	assert.Len(t, id, 36)
}

func TestContextLogger(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), log)

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, log, got)
		assert.Same(t, log, logger.Log(ctx))
	})

	t.Run("missing logger", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.ErrorIs(t, err, logger.ErrLoggerNotFound)
		assert.Nil(t, got)
		assert.NotNil(t, logger.Log(context.Background()))
	})

	t.Run("global logger", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Production, "error")
		require.NoError(t, err)

		logger.SetGlobalLogger(log)
		t.Cleanup(func() { logger.SetGlobalLogger(nil) })

		assert.Same(t, log, logger.Log(context.Background()))
	})
}
