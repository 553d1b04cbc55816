package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/gateway/ports/cache"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/ports/api"
	"walkydoggy/pkg/logger"
	"walkydoggy/pkg/metrics"
)

// Константы витрины.
const (
	LogFeaturedCacheHit = "featured businesses served from cache"

	featuredCacheName  = "featured"
	featuredVersionKey = "version"
)

// FeaturedCache кэширует витрину избранных бизнесов поверх BusinessUseCase.
// Любая запись через декоратор меняет версию витрины, старые ключи истекают по TTL.
type FeaturedCache struct {
	api.BusinessUseCase
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewFeaturedCache оборачивает сценарии бизнеса кэшем витрины.
func NewFeaturedCache(inner api.BusinessUseCase, c cache.Cache, ttl time.Duration, m *metrics.Metrics) api.BusinessUseCase {
	return &FeaturedCache{
		BusinessUseCase: inner,
		cache:           c,
		ttl:             ttl,
		metrics:         m,
		now:             time.Now,
	}
}

// Featured отдает витрину из кэша текущей версии или загружает ее.
func (f *FeaturedCache) Featured(ctx context.Context, limit int) ([]*entities.Business, error) {
	key := f.key(ctx, limit)

	var cached []*entities.Business
	if readJSON(ctx, f.cache, key, &cached) {
		f.metrics.CacheLookup(featuredCacheName, true)
		logger.Log(ctx).Debug(ctx, LogFeaturedCacheHit, zap.Int("limit", limit))
		return cached, nil
	}
	f.metrics.CacheLookup(featuredCacheName, false)

	businesses, err := f.BusinessUseCase.Featured(ctx, limit)
	if err != nil {
		return nil, err
	}
	writeJSON(ctx, f.cache, key, businesses, f.ttl)
	return businesses, nil
}

// Create создает бизнес и сбрасывает витрину.
func (f *FeaturedCache) Create(ctx context.Context, id services.Identity, business *entities.Business) (*entities.Business, error) {
	return f.bumpAfter(ctx)(f.BusinessUseCase.Create(ctx, id, business))
}

// Update меняет бизнес и сбрасывает витрину.
func (f *FeaturedCache) Update(ctx context.Context, id services.Identity, businessID string, patch entities.BusinessPatch) (*entities.Business, error) {
	return f.bumpAfter(ctx)(f.BusinessUseCase.Update(ctx, id, businessID, patch))
}

// Delete закрывает бизнес и сбрасывает витрину.
func (f *FeaturedCache) Delete(ctx context.Context, id services.Identity, businessID string) error {
	if err := f.BusinessUseCase.Delete(ctx, id, businessID); err != nil {
		return err
	}
	f.bump(ctx)
	return nil
}

// AddCertification добавляет сертификат и сбрасывает витрину.
func (f *FeaturedCache) AddCertification(ctx context.Context, id services.Identity, businessID string, cert entities.Certification) (*entities.Business, error) {
	return f.bumpAfter(ctx)(f.BusinessUseCase.AddCertification(ctx, id, businessID, cert))
}

// UpdateOperatingHours меняет расписание и сбрасывает витрину.
func (f *FeaturedCache) UpdateOperatingHours(ctx context.Context, id services.Identity, businessID string, hours []entities.OperatingHours) (*entities.Business, error) {
	return f.bumpAfter(ctx)(f.BusinessUseCase.UpdateOperatingHours(ctx, id, businessID, hours))
}

// UpdatePaymentAccount меняет платежный аккаунт и сбрасывает витрину.
func (f *FeaturedCache) UpdatePaymentAccount(ctx context.Context, id services.Identity, businessID, stripeAccountID string, status entities.PaymentStatus) (*entities.Business, error) {
	return f.bumpAfter(ctx)(f.BusinessUseCase.UpdatePaymentAccount(ctx, id, businessID, stripeAccountID, status))
}

func (f *FeaturedCache) key(ctx context.Context, limit int) string {
	version := "0"
	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	if v, err := f.cache.Get(cacheCtx, featuredVersionKey); err == nil {
		version = v
	}
	return "v" + version + ":" + strconv.Itoa(limit)
}

func (f *FeaturedCache) bump(ctx context.Context) {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	version := strconv.FormatInt(f.now().UnixNano(), 10)
	if err := f.cache.Set(cacheCtx, featuredVersionKey, version, 0); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheEvictFailed, zap.String("key", featuredVersionKey), zap.Error(err))
	}
}

func (f *FeaturedCache) bumpAfter(ctx context.Context) func(*entities.Business, error) (*entities.Business, error) {
	return func(business *entities.Business, err error) (*entities.Business, error) {
		if err != nil {
			return nil, err
		}
		f.bump(ctx)
		return business, nil
	}
}
