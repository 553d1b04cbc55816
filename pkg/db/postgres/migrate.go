package postgres

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres для migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // источник file://
	"go.uber.org/zap"

	"walkydoggy/pkg/logger"
)

// Константы для сообщений миграций.
const (
	LogMigrationsApplied  = "database migrations applied"
	LogMigrationsReverted = "database migrations reverted"
	LogNoChange           = "database schema is up to date"

	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrRevertMigrations        = "failed to revert migrations"
	ErrReadVersion             = "failed to read migration version"
	ErrResolvePath             = "failed to resolve migrations path"
)

// SourceURL превращает путь к каталогу миграций в URL источника file://.
func SourceURL(dir string) (string, error) {
	if strings.HasPrefix(dir, "file://") {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrResolvePath, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// MigrateUp применяет все новые миграции из каталога dir к базе по url.
func MigrateUp(ctx context.Context, url, dir string) error {
	log := logger.Log(ctx).With(zap.String("migrations", dir))

	m, err := newMigrate(dir, url)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info(ctx, LogNoChange)
			return nil
		}
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied)
	return nil
}

// MigrateDown откатывает steps миграций.
func MigrateDown(ctx context.Context, url, dir string, steps int) error {
	log := logger.Log(ctx).With(zap.String("migrations", dir), zap.Int("steps", steps))

	m, err := newMigrate(dir, url)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrRevertMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrRevertMigrations, err)
	}

	log.Info(ctx, LogMigrationsReverted)
	return nil
}

// MigrationVersion возвращает текущую версию схемы.
func MigrationVersion(ctx context.Context, url, dir string) (uint, bool, error) {
	m, err := newMigrate(dir, url)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, fmt.Errorf("%s: %w", ErrReadVersion, err)
	}
	return version, dirty, nil
}

func newMigrate(dir, url string) (*migrate.Migrate, error) {
	source, err := SourceURL(dir)
	if err != nil {
		return nil, err
	}
	m, err := migrate.New(source, url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	return m, nil
}
