package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/domain/policy"
	"walkydoggy/internal/marketplace/ports/api"
	"walkydoggy/internal/marketplace/ports/repositories"
	"walkydoggy/pkg/logger"
)

const (
	methodListBusinessServices = "ListBusinessServices"
	methodSearchServices       = "SearchServices"
	methodServicesByCategory   = "ServicesByCategory"
	methodGetService           = "GetService"
	methodCreateService        = "CreateService"
	methodUpdateService        = "UpdateService"
	methodDeleteService        = "DeleteService"
	methodToggleService        = "ToggleService"

	msgServiceCreated   = "service created"
	msgServiceUpdated   = "service updated"
	msgServiceDeleted   = "service deleted"
	msgServiceMissing   = "service not found in business"
	msgInvalidService   = "invalid service data"
	msgErrListServices  = "failed to list services"
	msgErrLoadService   = "failed to load service"
	msgErrSaveService   = "failed to save service"
	msgErrDeleteService = "failed to delete service"

	errCtxListingServices   = "listing services"
	errCtxLoadingService    = "loading service"
	errCtxValidatingService = "validating service"
	errCtxSavingService     = "saving service"
	errCtxDeletingService   = "deleting service"
)

// CatalogUseCaseImpl реализует api.CatalogUseCase.
type CatalogUseCaseImpl struct {
	services   repositories.ServiceRepository
	businesses repositories.BusinessRepository
	opts       options
}

// NewCatalogUseCase создает сценарии услуг.
func NewCatalogUseCase(catalog repositories.ServiceRepository, businesses repositories.BusinessRepository, opts ...Option) api.CatalogUseCase {
	return &CatalogUseCaseImpl{
		services:   catalog,
		businesses: businesses,
		opts:       newOptions(opts),
	}
}

// ListByBusiness услуги бизнеса. Владелец и администратор видят и выключенные.
func (u *CatalogUseCaseImpl) ListByBusiness(ctx context.Context, viewer *services.Identity, businessID string) ([]*entities.Service, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListBusinessServices), zap.String("business_id", businessID))

	business, err := u.businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgBusinessMissing)
			return nil, fmt.Errorf("%s: %w", errCtxLoadingBusiness, err)
		}
		return nil, fail(ctx, log, msgErrLoadBusiness, errCtxLoadingBusiness, err)
	}

	activeOnly := viewer == nil || policy.CanManageBusinessResource(*viewer, business) != nil
	items, err := u.services.ListByBusiness(ctx, business.ID, activeOnly)
	if err != nil {
		return nil, fail(ctx, log, msgErrListServices, errCtxListingServices, err)
	}
	return items, nil
}

// Search ищет активные услуги.
func (u *CatalogUseCaseImpl) Search(ctx context.Context, query entities.ServiceSearch) (*api.ServicePage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodSearchServices))

	query.Text = strings.TrimSpace(query.Text)
	if query.Category != "" && !query.Category.Valid() {
		return nil, fmt.Errorf("%s: %w", errCtxListingServices, entities.ErrInvalidCategory)
	}
	return u.search(ctx, log, query)
}

// ListByCategory активные услуги категории.
func (u *CatalogUseCaseImpl) ListByCategory(ctx context.Context, category entities.Category, page, limit int) (*api.ServicePage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodServicesByCategory), zap.String("category", string(category)))

	if !category.Valid() {
		return nil, fmt.Errorf("%s: %w", errCtxListingServices, entities.ErrInvalidCategory)
	}
	return u.search(ctx, log, entities.ServiceSearch{Category: category, Page: page, Limit: limit})
}

// Get услуга по идентификатору.
func (u *CatalogUseCaseImpl) Get(ctx context.Context, serviceID string) (*entities.Service, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetService), zap.String("service_id", serviceID))

	service, err := u.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgServiceMissing)
			return nil, fmt.Errorf("%s: %w", errCtxLoadingService, err)
		}
		return nil, fail(ctx, log, msgErrLoadService, errCtxLoadingService, err)
	}
	return service, nil
}

// Create добавляет услугу в бизнес, только владелец бизнеса.
func (u *CatalogUseCaseImpl) Create(ctx context.Context, id services.Identity, businessID string, service *entities.Service) (*entities.Service, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateService), zap.String("business_id", businessID))

	business, err := ownedBusiness(ctx, u.businesses, log, id, businessID)
	if err != nil {
		return nil, err
	}

	service.ID = ""
	service.BusinessID = business.ID
	service.IsActive = true
	service.Rating = entities.Rating{}
	if err := service.Validate(); err != nil {
		log.Debug(ctx, msgInvalidService, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingService, err)
	}

	created, err := u.services.Create(ctx, service)
	if err != nil {
		return nil, fail(ctx, log, msgErrSaveService, errCtxSavingService, err)
	}

	log.Info(ctx, msgServiceCreated, zap.String("service_id", created.ID))
	return created, nil
}

// Update меняет услугу бизнеса.
func (u *CatalogUseCaseImpl) Update(ctx context.Context, id services.Identity, businessID, serviceID string, patch entities.ServicePatch) (*entities.Service, error) {
	return u.modify(ctx, methodUpdateService, id, businessID, serviceID, func(s *entities.Service) error {
		s.Apply(patch)
		return s.Validate()
	})
}

// Delete удаляет услугу бизнеса.
func (u *CatalogUseCaseImpl) Delete(ctx context.Context, id services.Identity, businessID, serviceID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteService), zap.String("service_id", serviceID))

	service, err := u.owned(ctx, log, id, businessID, serviceID)
	if err != nil {
		return err
	}
	if err := u.services.Delete(ctx, service.ID); err != nil {
		return fail(ctx, log, msgErrDeleteService, errCtxDeletingService, err)
	}

	log.Info(ctx, msgServiceDeleted)
	return nil
}

// Toggle переключает активность услуги.
func (u *CatalogUseCaseImpl) Toggle(ctx context.Context, id services.Identity, businessID, serviceID string) (*entities.Service, error) {
	return u.modify(ctx, methodToggleService, id, businessID, serviceID, func(s *entities.Service) error {
		s.IsActive = !s.IsActive
		return nil
	})
}

func (u *CatalogUseCaseImpl) search(ctx context.Context, log *logger.Logger, query entities.ServiceSearch) (*api.ServicePage, error) {
	query.Page, query.Limit = entities.NormalizePage(query.Page, query.Limit)
	items, total, err := u.services.Search(ctx, query)
	if err != nil {
		return nil, fail(ctx, log, msgErrListServices, errCtxListingServices, err)
	}
	return &api.ServicePage{Items: items, Page: entities.NewPage(query.Page, query.Limit, total)}, nil
}

// owned загружает услугу, принадлежащую бизнесу, которым управляет личность.
// Услуга чужого бизнеса неотличима от отсутствующей.
func (u *CatalogUseCaseImpl) owned(ctx context.Context, log *logger.Logger, id services.Identity, businessID, serviceID string) (*entities.Service, error) {
	business, err := ownedBusiness(ctx, u.businesses, log, id, businessID)
	if err != nil {
		return nil, err
	}

	service, err := u.services.FindByID(ctx, serviceID)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return nil, fail(ctx, log, msgErrLoadService, errCtxLoadingService, err)
	}
	if err != nil || service.BusinessID != business.ID {
		log.Debug(ctx, msgServiceMissing)
		return nil, fmt.Errorf("%s: %w", errCtxLoadingService, entities.ErrServiceNotFound)
	}
	return service, nil
}

func (u *CatalogUseCaseImpl) modify(ctx context.Context, method string, id services.Identity, businessID, serviceID string, apply func(*entities.Service) error) (*entities.Service, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("service_id", serviceID))

	service, err := u.owned(ctx, log, id, businessID, serviceID)
	if err != nil {
		return nil, err
	}
	if err := apply(service); err != nil {
		log.Debug(ctx, msgInvalidService, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingService, err)
	}

	saved, err := u.services.Update(ctx, service)
	if err != nil {
		return nil, fail(ctx, log, msgErrSaveService, errCtxSavingService, err)
	}
	log.Info(ctx, msgServiceUpdated)
	return saved, nil
}
