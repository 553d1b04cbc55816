package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkydoggy/internal/auth/db"
	"walkydoggy/internal/config"
)

func TestNew_MissingMigrations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &config.PostgresConfig{
		Host:          "127.0.0.1",
		Port:          1,
		User:          "walky",
		Password:      "walky",
		Database:      "walky",
		SSLMode:       "disable",
		MigrationsDir: t.TempDir() + "/absent",
	}

	database, err := db.New(ctx, cfg)
	require.Error(t, err)
	assert.Nil(t, database)
	assert.Contains(t, err.Error(), db.ErrDBMigrations)
}
