// Package services содержит декораторы use case, кэширующие чтения в Redis.
// Ошибки кэша никогда не прерывают запрос: декоратор уходит к источнику.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/ports/api"
	"walkydoggy/internal/gateway/ports/cache"
	"walkydoggy/pkg/logger"
	"walkydoggy/pkg/metrics"
)

// Константы для логирования.
const (
	LogProfileCacheHit  = "profile served from cache"
	LogProfileCached    = "profile cached"
	LogCacheReadFailed  = "cache read failed, falling back to source"
	LogCacheWriteFailed = "cache write failed"
	LogCacheEvictFailed = "cache eviction failed"

	profileCacheName = "profile"
	cacheOpTimeout   = 2 * time.Second
)

// ProfileCache кэширует публичные профили поверх AccountUseCase.
type ProfileCache struct {
	api.AccountUseCase
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewProfileCache оборачивает сценарии профиля кэшем.
func NewProfileCache(inner api.AccountUseCase, c cache.Cache, ttl time.Duration, m *metrics.Metrics) api.AccountUseCase {
	return &ProfileCache{
		AccountUseCase: inner,
		cache:          c,
		ttl:            ttl,
		metrics:        m,
	}
}

// GetPublicProfile отдает профиль из кэша или загружает и кэширует его.
func (p *ProfileCache) GetPublicProfile(ctx context.Context, accountID string) (*entities.PublicProfile, error) {
	log := logger.Log(ctx).With(zap.String("account_id", accountID))

	var cached entities.PublicProfile
	if readJSON(ctx, p.cache, accountID, &cached) {
		p.metrics.CacheLookup(profileCacheName, true)
		log.Debug(ctx, LogProfileCacheHit)
		return &cached, nil
	}
	p.metrics.CacheLookup(profileCacheName, false)

	profile, err := p.AccountUseCase.GetPublicProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if writeJSON(ctx, p.cache, accountID, profile, p.ttl) {
		log.Debug(ctx, LogProfileCached)
	}
	return profile, nil
}

// UpdateProfile меняет профиль и сбрасывает запись кэша.
func (p *ProfileCache) UpdateProfile(ctx context.Context, accountID string, update api.ProfileUpdate) (*entities.PublicProfile, error) {
	return p.evictAfter(ctx, accountID)(p.AccountUseCase.UpdateProfile(ctx, accountID, update))
}

// UpdateAvatar меняет аватар и сбрасывает запись кэша.
func (p *ProfileCache) UpdateAvatar(ctx context.Context, accountID, avatarURL string) (*entities.PublicProfile, error) {
	return p.evictAfter(ctx, accountID)(p.AccountUseCase.UpdateAvatar(ctx, accountID, avatarURL))
}

// UpdatePhone меняет телефон и сбрасывает запись кэша.
func (p *ProfileCache) UpdatePhone(ctx context.Context, accountID, phone string) (*entities.PublicProfile, error) {
	return p.evictAfter(ctx, accountID)(p.AccountUseCase.UpdatePhone(ctx, accountID, phone))
}

// UpdateAddress меняет адрес и сбрасывает запись кэша.
func (p *ProfileCache) UpdateAddress(ctx context.Context, accountID string, address entities.Address) (*entities.PublicProfile, error) {
	return p.evictAfter(ctx, accountID)(p.AccountUseCase.UpdateAddress(ctx, accountID, address))
}

// DeleteAccount удаляет учетную запись и ее профиль из кэша.
func (p *ProfileCache) DeleteAccount(ctx context.Context, accountID, password string) error {
	if err := p.AccountUseCase.DeleteAccount(ctx, accountID, password); err != nil {
		return err
	}
	evict(ctx, p.cache, accountID)
	return nil
}

func (p *ProfileCache) evictAfter(ctx context.Context, accountID string) func(*entities.PublicProfile, error) (*entities.PublicProfile, error) {
	return func(profile *entities.PublicProfile, err error) (*entities.PublicProfile, error) {
		if err != nil {
			return nil, err
		}
		evict(ctx, p.cache, accountID)
		return profile, nil
	}
}

// readJSON читает значение. Промах и сбой кэша дают false.
func readJSON(ctx context.Context, c cache.Cache, key string, dst any) bool {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	raw, err := c.Get(cacheCtx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Log(ctx).Warn(ctx, LogCacheReadFailed, zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheReadFailed, zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func writeJSON(ctx context.Context, c cache.Cache, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheWriteFailed, zap.String("key", key), zap.Error(err))
		return false
	}

	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := c.Set(cacheCtx, key, string(raw), ttl); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheWriteFailed, zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func evict(ctx context.Context, c cache.Cache, key string) {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := c.Delete(cacheCtx, key); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheEvictFailed, zap.String("key", key), zap.Error(err))
	}
}
