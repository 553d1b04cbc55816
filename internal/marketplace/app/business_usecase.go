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
	svc "walkydoggy/internal/marketplace/ports/services"
	"walkydoggy/pkg/logger"
)

const (
	methodSearchBusinesses     = "SearchBusinesses"
	methodNearbyBusinesses     = "NearbyBusinesses"
	methodFeaturedBusinesses   = "FeaturedBusinesses"
	methodGetBusiness          = "GetBusiness"
	methodMyBusiness           = "MyBusiness"
	methodBusinessOwner        = "BusinessOwner"
	methodCreateBusiness       = "CreateBusiness"
	methodUpdateBusiness       = "UpdateBusiness"
	methodDeleteBusiness       = "DeleteBusiness"
	methodAddBusinessCert      = "AddBusinessCertification"
	methodUpdateOperatingHours = "UpdateOperatingHours"
	methodUpdatePayment        = "UpdatePaymentAccount"

	defaultFeaturedLimit = 10
	defaultNearbyLimit   = 20

	msgBusinessCreated    = "business created"
	msgBusinessUpdated    = "business updated"
	msgBusinessClosed     = "business closed"
	msgBusinessDenied     = "business access denied"
	msgBusinessMissing    = "business not found"
	msgBusinessDuplicate  = "account already has a business"
	msgInvalidBusiness    = "invalid business data"
	msgLinkBusinessFailed = "failed to link business to owner account"
	msgErrSearchBusiness  = "failed to search businesses"
	msgErrLoadBusiness    = "failed to load business"
	msgErrSaveBusiness    = "failed to save business"

	errCtxSearchingBusinesses = "searching businesses"
	errCtxLoadingBusiness     = "loading business"
	errCtxCheckingBusiness    = "checking business access"
	errCtxValidatingBusiness  = "validating business"
	errCtxSavingBusiness      = "saving business"
	errCtxCreatingBusiness    = "creating business"
)

// BusinessUseCaseImpl реализует api.BusinessUseCase.
type BusinessUseCaseImpl struct {
	businesses repositories.BusinessRepository
	accounts   svc.AccountDirectory
	opts       options
}

// NewBusinessUseCase создает сценарии профилей бизнеса.
func NewBusinessUseCase(businesses repositories.BusinessRepository, accounts svc.AccountDirectory, opts ...Option) api.BusinessUseCase {
	return &BusinessUseCaseImpl{
		businesses: businesses,
		accounts:   accounts,
		opts:       newOptions(opts),
	}
}

// Search ищет активные бизнесы с постраничной выдачей.
func (u *BusinessUseCaseImpl) Search(ctx context.Context, query entities.BusinessSearch) (*api.BusinessPage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodSearchBusinesses))

	query.Text = strings.TrimSpace(query.Text)
	query.Page, query.Limit = entities.NormalizePage(query.Page, query.Limit)
	if query.Near != nil {
		if err := query.Near.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxSearchingBusinesses, err)
		}
		if query.RadiusKm <= 0 {
			query.RadiusKm = entities.DefaultSearchRadiusKm
		}
	} else if query.SortBy == entities.SortDistance {
		query.SortBy = entities.SortFeatured
	}

	items, total, err := u.businesses.Search(ctx, query)
	if err != nil {
		return nil, fail(ctx, log, msgErrSearchBusiness, errCtxSearchingBusinesses, err)
	}
	return &api.BusinessPage{Items: items, Page: entities.NewPage(query.Page, query.Limit, total)}, nil
}

// Nearby активные бизнесы в радиусе от точки.
func (u *BusinessUseCaseImpl) Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Business, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNearbyBusinesses))

	if err := point.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxSearchingBusinesses, err)
	}
	if radiusKm <= 0 {
		radiusKm = entities.DefaultSearchRadiusKm
	}

	items, err := u.businesses.Nearby(ctx, point, radiusKm, defaultNearbyLimit)
	if err != nil {
		return nil, fail(ctx, log, msgErrSearchBusiness, errCtxSearchingBusinesses, err)
	}
	return items, nil
}

// Featured избранные бизнесы.
func (u *BusinessUseCaseImpl) Featured(ctx context.Context, limit int) ([]*entities.Business, error) {
	log := logger.Log(ctx).With(zap.String("method", methodFeaturedBusinesses))

	if limit <= 0 || limit > entities.MaxPageLimit {
		limit = defaultFeaturedLimit
	}
	items, err := u.businesses.Featured(ctx, limit)
	if err != nil {
		return nil, fail(ctx, log, msgErrSearchBusiness, errCtxSearchingBusinesses, err)
	}
	return items, nil
}

// Get публичный профиль, каждый вызов засчитывается как просмотр.
func (u *BusinessUseCaseImpl) Get(ctx context.Context, businessID string) (*entities.Business, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetBusiness), zap.String("business_id", businessID))

	business, err := u.businesses.IncrementViews(ctx, businessID)
	if err != nil {
		return nil, u.lookupError(ctx, log, err)
	}
	return business, nil
}

// Mine профиль бизнеса личности.
func (u *BusinessUseCaseImpl) Mine(ctx context.Context, id services.Identity) (*entities.Business, error) {
	log := logger.Log(ctx).With(zap.String("method", methodMyBusiness), zap.String("account_id", id.AccountID))

	business, err := u.businesses.FindByOwner(ctx, id.AccountID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgBusinessMissing)
			return nil, fmt.Errorf("%s: %w", errCtxLoadingBusiness, entities.ErrNoBusinessForMe)
		}
		return nil, fail(ctx, log, msgErrLoadBusiness, errCtxLoadingBusiness, err)
	}
	return business, nil
}

// Owner владелец бизнеса без учета просмотра.
func (u *BusinessUseCaseImpl) Owner(ctx context.Context, businessID string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodBusinessOwner), zap.String("business_id", businessID))

	business, err := u.businesses.FindByID(ctx, businessID)
	if err != nil {
		return "", u.lookupError(ctx, log, err)
	}
	return business.OwnerID, nil
}

// Create создает единственный профиль бизнеса учетной записи и привязывает его к ней.
func (u *BusinessUseCaseImpl) Create(ctx context.Context, id services.Identity, business *entities.Business) (*entities.Business, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateBusiness), zap.String("account_id", id.AccountID))

	if err := policy.CanCreateBusiness(id); err != nil {
		log.Debug(ctx, msgBusinessDenied)
		return nil, fmt.Errorf("%s: %w", errCtxCreatingBusiness, err)
	}

	_, err := u.businesses.FindByOwner(ctx, id.AccountID)
	switch {
	case err == nil:
		log.Debug(ctx, msgBusinessDuplicate)
		return nil, fmt.Errorf("%s: %w", errCtxCreatingBusiness, entities.ErrBusinessExists)
	case !errors.Is(err, entities.ErrNotFound):
		return nil, fail(ctx, log, msgErrLoadBusiness, errCtxCreatingBusiness, err)
	}

	business.ID = ""
	business.OwnerID = id.AccountID
	business.Views = 0
	business.Rating = entities.Rating{}
	business.IsVerified = false
	business.Featured = false
	business.Status = entities.BusinessPending
	if err := business.Validate(); err != nil {
		log.Debug(ctx, msgInvalidBusiness, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingBusiness, err)
	}

	created, err := u.businesses.Create(ctx, business)
	if err != nil {
		return nil, fail(ctx, log, msgErrSaveBusiness, errCtxSavingBusiness, err)
	}

	if err := u.accounts.LinkBusiness(ctx, id.AccountID, created.ID); err != nil {
		log.Error(ctx, msgLinkBusinessFailed, zap.Error(err))
	}

	log.Info(ctx, msgBusinessCreated, zap.String("business_id", created.ID))
	return created, nil
}

// Update меняет профиль, только владелец. Приостановить бизнес может только администратор.
func (u *BusinessUseCaseImpl) Update(ctx context.Context, id services.Identity, businessID string, patch entities.BusinessPatch) (*entities.Business, error) {
	if patch.Status != nil && *patch.Status == entities.BusinessSuspended && !id.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", errCtxCheckingBusiness, services.ErrForbidden)
	}
	return u.modify(ctx, methodUpdateBusiness, id, businessID, func(b *entities.Business) error {
		b.Apply(patch)
		return b.Validate()
	})
}

// Delete закрывает бизнес, только владелец.
func (u *BusinessUseCaseImpl) Delete(ctx context.Context, id services.Identity, businessID string) error {
	_, err := u.modify(ctx, methodDeleteBusiness, id, businessID, func(b *entities.Business) error {
		b.Status = entities.BusinessClosed
		return nil
	})
	if err == nil {
		logger.Log(ctx).Info(ctx, msgBusinessClosed, zap.String("business_id", businessID))
	}
	return err
}

// AddCertification добавляет сертификат, только владелец.
func (u *BusinessUseCaseImpl) AddCertification(ctx context.Context, id services.Identity, businessID string, cert entities.Certification) (*entities.Business, error) {
	return u.modify(ctx, methodAddBusinessCert, id, businessID, func(b *entities.Business) error {
		if strings.TrimSpace(cert.Name) == "" {
			return entities.ErrNameRequired
		}
		cert.Verified = false
		b.Certifications = append(b.Certifications, cert)
		return nil
	})
}

// UpdateOperatingHours заменяет расписание, только владелец.
func (u *BusinessUseCaseImpl) UpdateOperatingHours(ctx context.Context, id services.Identity, businessID string, hours []entities.OperatingHours) (*entities.Business, error) {
	return u.modify(ctx, methodUpdateOperatingHours, id, businessID, func(b *entities.Business) error {
		if err := entities.ValidateHours(hours); err != nil {
			return err
		}
		b.OperatingHours = hours
		return nil
	})
}

// UpdatePaymentAccount привязывает аккаунт Stripe, статус по умолчанию pending.
func (u *BusinessUseCaseImpl) UpdatePaymentAccount(ctx context.Context, id services.Identity, businessID, stripeAccountID string, status entities.PaymentStatus) (*entities.Business, error) {
	return u.modify(ctx, methodUpdatePayment, id, businessID, func(b *entities.Business) error {
		if status == "" {
			status = entities.PaymentPending
		}
		if !status.Valid() {
			return entities.ErrInvalidPaymentStatus
		}
		b.Payment = entities.PaymentAccount{StripeAccountID: strings.TrimSpace(stripeAccountID), Status: status}
		return nil
	})
}

func (u *BusinessUseCaseImpl) modify(ctx context.Context, method string, id services.Identity, businessID string, apply func(*entities.Business) error) (*entities.Business, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("business_id", businessID))

	business, err := u.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, u.lookupError(ctx, log, err)
	}
	if err := policy.CanManageBusiness(id, business); err != nil {
		log.Debug(ctx, msgBusinessDenied, zap.String("account_id", id.AccountID))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingBusiness, err)
	}
	if err := apply(business); err != nil {
		log.Debug(ctx, msgInvalidBusiness, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingBusiness, err)
	}

	saved, err := u.businesses.Update(ctx, business)
	if err != nil {
		return nil, fail(ctx, log, msgErrSaveBusiness, errCtxSavingBusiness, err)
	}
	log.Info(ctx, msgBusinessUpdated)
	return saved, nil
}

func (u *BusinessUseCaseImpl) lookupError(ctx context.Context, log *logger.Logger, err error) error {
	if errors.Is(err, entities.ErrNotFound) {
		log.Debug(ctx, msgBusinessMissing)
		return fmt.Errorf("%s: %w", errCtxLoadingBusiness, err)
	}
	return fail(ctx, log, msgErrLoadBusiness, errCtxLoadingBusiness, err)
}

// ownedBusiness загружает бизнес и проверяет право управлять его услугами и исполнителями.
func ownedBusiness(ctx context.Context, businesses repositories.BusinessRepository, log *logger.Logger, id services.Identity, businessID string) (*entities.Business, error) {
	business, err := businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgBusinessMissing)
			return nil, fmt.Errorf("%s: %w", errCtxLoadingBusiness, err)
		}
		return nil, fail(ctx, log, msgErrLoadBusiness, errCtxLoadingBusiness, err)
	}
	if err := policy.CanManageBusinessResource(id, business); err != nil {
		log.Debug(ctx, msgBusinessDenied, zap.String("account_id", id.AccountID))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingBusiness, err)
	}
	return business, nil
}
