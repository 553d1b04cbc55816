package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkydoggy/internal/config"
	"walkydoggy/pkg/logger"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("MONGO_DB", "market")
	t.Setenv("LOG_MODE", "production")
	t.Setenv("GRACEFUL_SHUTDOWN_TIMEOUT", "3")

	cfg, err := config.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "market", cfg.Mongo.Database)
	assert.Equal(t, logger.Production, cfg.Logging.GetEnvironment())
	assert.Equal(t, 3*time.Second, cfg.Shutdown.GetTimeout())
	assert.Equal(t, 15*time.Minute, cfg.JWT.GetAccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.GetRefreshTokenTTL())
	assert.Equal(t, config.EmailProviderLog, cfg.Email.Provider)
	assert.Equal(t, "postgres://postgres:postgres@db:6543/walkydoggy?sslmode=disable", cfg.Postgres.GetConnectionURL())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
jwt:
  access_secret: a
  refresh_secret: b
  access_token_ttl: 30m
http:
  port: 9090
email:
  provider: smtp
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWT.GetAccessTokenTTL())
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.GetAddress())
	assert.Equal(t, config.EmailProviderSMTP, cfg.Email.Provider)
}

func TestLoadRejectsInvalidSecrets(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
		wantErr error
	}{
		{name: "missing access secret", refresh: "r", wantErr: config.ErrEmptyAccessSecret},
		{name: "missing refresh secret", access: "a", wantErr: config.ErrEmptyRefreshSecret},
		{name: "same secrets", access: "s", refresh: "s", wantErr: config.ErrSameSecrets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.access)
			t.Setenv("JWT_REFRESH_SECRET", tt.refresh)

			_, err := config.Load(context.Background(), "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTConfigTTLParsing(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"15m", 15 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"abc", 7 * 24 * time.Hour},
		{"-1h", 7 * 24 * time.Hour},
		{"0d", 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := config.JWTConfig{RefreshTokenTTL: tt.value}
			assert.Equal(t, tt.want, cfg.GetRefreshTokenTTL())
		})
	}
}

func TestHTTPConfigCORSOrigins(t *testing.T) {
	cfg := config.HTTPConfig{}
	assert.Equal(t, []string{"http://client"}, cfg.GetCORSOrigins("http://client"))

	cfg.CORSOrigins = "http://a, http://b ,"
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.GetCORSOrigins("http://client"))
}
