package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/ports/api"
	"walkydoggy/internal/marketplace/ports/repositories"
	svc "walkydoggy/internal/marketplace/ports/services"
	"walkydoggy/pkg/logger"
)

const (
	methodNearbyWorkers      = "NearbyWorkers"
	methodGetWorker          = "GetWorker"
	methodListWorkers        = "ListWorkers"
	methodCreateWorker       = "CreateWorker"
	methodUpdateWorker       = "UpdateWorker"
	methodDeleteWorker       = "DeleteWorker"
	methodToggleWorker       = "ToggleWorker"
	methodUpdateLocation     = "UpdateWorkerLocation"
	methodSetOnline          = "SetWorkerOnline"
	methodAssignServices     = "AssignWorkerServices"
	methodAddWorkerCert      = "AddWorkerCertification"
	methodUpdateAvailability = "UpdateWorkerAvailability"

	defaultOwnerFirstName = "Owner"

	msgWorkerCreated    = "worker created"
	msgWorkerUpdated    = "worker updated"
	msgWorkerDeleted    = "worker deleted"
	msgWorkerMissing    = "worker not found in business"
	msgWorkerDuplicate  = "worker already exists in business"
	msgInvalidWorker    = "invalid worker data"
	msgForeignServices  = "services do not belong to business"
	msgOwnerAccountLost = "business owner account not found"
	msgErrListWorkers   = "failed to list workers"
	msgErrLoadWorker    = "failed to load worker"
	msgErrSaveWorker    = "failed to save worker"
	msgErrDeleteWorker  = "failed to delete worker"
	msgErrLookupAccount = "failed to look up worker account"
	msgErrCountServices = "failed to count business services"

	errCtxListingWorkers   = "listing workers"
	errCtxLoadingWorker    = "loading worker"
	errCtxValidatingWorker = "validating worker"
	errCtxSavingWorker     = "saving worker"
	errCtxDeletingWorker   = "deleting worker"
	errCtxLinkingAccount   = "linking worker account"
	errCtxCheckingServices = "checking worker services"
)

// WorkerUseCaseImpl реализует api.WorkerUseCase.
type WorkerUseCaseImpl struct {
	workers    repositories.WorkerRepository
	businesses repositories.BusinessRepository
	catalog    repositories.ServiceRepository
	accounts   svc.AccountDirectory
	opts       options
}

// NewWorkerUseCase создает сценарии исполнителей.
func NewWorkerUseCase(
	workers repositories.WorkerRepository,
	businesses repositories.BusinessRepository,
	catalog repositories.ServiceRepository,
	accounts svc.AccountDirectory,
	opts ...Option,
) api.WorkerUseCase {
	return &WorkerUseCaseImpl{
		workers:    workers,
		businesses: businesses,
		catalog:    catalog,
		accounts:   accounts,
		opts:       newOptions(opts),
	}
}

// Nearby активные исполнители онлайн рядом с точкой.
func (u *WorkerUseCaseImpl) Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Worker, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNearbyWorkers))

	if err := point.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingWorkers, err)
	}
	if radiusKm <= 0 {
		radiusKm = entities.DefaultNearbyWorkersKm
	}

	workers, err := u.workers.NearbyOnline(ctx, point, radiusKm)
	if err != nil {
		return nil, fail(ctx, log, msgErrListWorkers, errCtxListingWorkers, err)
	}
	return workers, nil
}

// Get публичный профиль исполнителя.
func (u *WorkerUseCaseImpl) Get(ctx context.Context, workerID string) (*entities.Worker, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetWorker), zap.String("worker_id", workerID))

	worker, err := u.workers.FindByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgWorkerMissing)
			return nil, fmt.Errorf("%s: %w", errCtxLoadingWorker, err)
		}
		return nil, fail(ctx, log, msgErrLoadWorker, errCtxLoadingWorker, err)
	}
	return worker, nil
}

// List исполнители бизнеса, только для владельца.
func (u *WorkerUseCaseImpl) List(ctx context.Context, id services.Identity, businessID string) ([]*entities.Worker, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListWorkers), zap.String("business_id", businessID))

	business, err := ownedBusiness(ctx, u.businesses, log, id, businessID)
	if err != nil {
		return nil, err
	}

	workers, err := u.workers.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, fail(ctx, log, msgErrListWorkers, errCtxListingWorkers, err)
	}
	return workers, nil
}

// Create добавляет исполнителя. Индивидуальный бизнес получает исполнителя из учетной записи
// владельца, остальные указывают email, уникальный в пределах бизнеса.
func (u *WorkerUseCaseImpl) Create(ctx context.Context, id services.Identity, businessID string, input entities.WorkerInput) (*entities.Worker, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateWorker), zap.String("business_id", businessID))

	business, err := ownedBusiness(ctx, u.businesses, log, id, businessID)
	if err != nil {
		return nil, err
	}

	worker := &entities.Worker{
		BusinessID:      business.ID,
		Profile:         input.Profile,
		Specializations: input.Specializations,
		ExperienceYears: input.ExperienceYears,
		HourlyRate:      input.HourlyRate,
		IsActive:        true,
		Status:          entities.WorkerStatus{State: entities.WorkerOffline},
	}

	if business.Type == entities.BusinessIndividual {
		err = u.fromOwner(ctx, log, business, worker)
	} else {
		err = u.fromEmail(ctx, log, business, worker)
	}
	if err != nil {
		return nil, err
	}

	if ids := dedupe(input.Services); len(ids) > 0 {
		if err := u.checkServices(ctx, log, business.ID, ids); err != nil {
			return nil, err
		}
		worker.Services = ids
	}

	if err := worker.Validate(); err != nil {
		log.Debug(ctx, msgInvalidWorker, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingWorker, err)
	}

	created, err := u.workers.Create(ctx, worker)
	if err != nil {
		if errors.Is(err, entities.ErrConflict) {
			log.Debug(ctx, msgWorkerDuplicate)
			return nil, fmt.Errorf("%s: %w", errCtxSavingWorker, err)
		}
		return nil, fail(ctx, log, msgErrSaveWorker, errCtxSavingWorker, err)
	}

	log.Info(ctx, msgWorkerCreated, zap.String("worker_id", created.ID))
	return created, nil
}

// Update меняет профиль исполнителя.
func (u *WorkerUseCaseImpl) Update(ctx context.Context, id services.Identity, businessID, workerID string, patch entities.WorkerPatch) (*entities.Worker, error) {
	return u.modify(ctx, methodUpdateWorker, id, businessID, workerID, func(w *entities.Worker) error {
		w.Apply(patch)
		return w.Validate()
	})
}

// Delete удаляет исполнителя.
func (u *WorkerUseCaseImpl) Delete(ctx context.Context, id services.Identity, businessID, workerID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteWorker), zap.String("worker_id", workerID))

	worker, err := u.owned(ctx, log, id, businessID, workerID)
	if err != nil {
		return err
	}
	if err := u.workers.Delete(ctx, worker.ID); err != nil {
		return fail(ctx, log, msgErrDeleteWorker, errCtxDeletingWorker, err)
	}

	log.Info(ctx, msgWorkerDeleted)
	return nil
}

// Toggle включает или выключает исполнителя.
func (u *WorkerUseCaseImpl) Toggle(ctx context.Context, id services.Identity, businessID, workerID string) (*entities.Worker, error) {
	return u.modify(ctx, methodToggleWorker, id, businessID, workerID, func(w *entities.Worker) error {
		w.Toggle(u.opts.now())
		return nil
	})
}

// UpdateLocation записывает текущую позицию.
func (u *WorkerUseCaseImpl) UpdateLocation(ctx context.Context, id services.Identity, businessID, workerID string, point entities.GeoPoint) (*entities.Worker, error) {
	return u.modify(ctx, methodUpdateLocation, id, businessID, workerID, func(w *entities.Worker) error {
		return w.MoveTo(point, u.opts.now())
	})
}

// SetOnline меняет онлайн статус.
func (u *WorkerUseCaseImpl) SetOnline(ctx context.Context, id services.Identity, businessID, workerID string, online bool) (*entities.Worker, error) {
	return u.modify(ctx, methodSetOnline, id, businessID, workerID, func(w *entities.Worker) error {
		w.SetOnline(online, u.opts.now())
		return nil
	})
}

// AssignServices заменяет список услуг исполнителя. Все услуги должны принадлежать бизнесу.
func (u *WorkerUseCaseImpl) AssignServices(ctx context.Context, id services.Identity, businessID, workerID string, serviceIDs []string) (*entities.Worker, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAssignServices), zap.String("worker_id", workerID))

	worker, err := u.owned(ctx, log, id, businessID, workerID)
	if err != nil {
		return nil, err
	}
	ids := dedupe(serviceIDs)
	if err := u.checkServices(ctx, log, worker.BusinessID, ids); err != nil {
		return nil, err
	}
	worker.Services = ids
	return u.save(ctx, log, worker)
}

// AddCertification добавляет сертификат, он остается непроверенным.
func (u *WorkerUseCaseImpl) AddCertification(ctx context.Context, id services.Identity, businessID, workerID string, cert entities.Certification) (*entities.Worker, error) {
	return u.modify(ctx, methodAddWorkerCert, id, businessID, workerID, func(w *entities.Worker) error {
		cert.Name = strings.TrimSpace(cert.Name)
		if cert.Name == "" {
			return entities.ErrNameRequired
		}
		cert.Verified = false
		w.Certifications = append(w.Certifications, cert)
		return nil
	})
}

// UpdateAvailability меняет расписание и отгулы.
func (u *WorkerUseCaseImpl) UpdateAvailability(ctx context.Context, id services.Identity, businessID, workerID string, update entities.AvailabilityUpdate) (*entities.Worker, error) {
	return u.modify(ctx, methodUpdateAvailability, id, businessID, workerID, func(w *entities.Worker) error {
		return w.UpdateAvailability(update)
	})
}

// fromOwner заполняет профиль исполнителя из учетной записи владельца бизнеса.
func (u *WorkerUseCaseImpl) fromOwner(ctx context.Context, log *logger.Logger, business *entities.Business, worker *entities.Worker) error {
	_, err := u.workers.FindByBusinessAccount(ctx, business.ID, business.OwnerID)
	switch {
	case err == nil:
		log.Debug(ctx, msgWorkerDuplicate, zap.String("account_id", business.OwnerID))
		return fmt.Errorf("%s: %w", errCtxLinkingAccount, entities.ErrOwnerWorkerDup)
	case !errors.Is(err, entities.ErrNotFound):
		return fail(ctx, log, msgErrLoadWorker, errCtxLinkingAccount, err)
	}

	owner, err := u.accounts.FindByID(ctx, business.OwnerID)
	if err != nil {
		if errors.Is(err, authentities.ErrAccountNotFound) {
			log.Warn(ctx, msgOwnerAccountLost, zap.String("account_id", business.OwnerID))
			return fmt.Errorf("%s: %w", errCtxLinkingAccount, err)
		}
		return fail(ctx, log, msgErrLookupAccount, errCtxLinkingAccount, err)
	}

	firstName := owner.FirstName
	if firstName == "" {
		firstName = defaultOwnerFirstName
	}
	phone := owner.Phone
	if phone == "" {
		phone = business.Contact.Phone
	}
	worker.AccountID = owner.ID
	worker.Profile = entities.WorkerProfile{
		FirstName: firstName,
		LastName:  owner.LastName,
		Email:     owner.Email,
		Phone:     phone,
		Avatar:    owner.Avatar,
		Bio:       worker.Profile.Bio,
	}
	return nil
}

// fromEmail проверяет уникальность email и привязывает учетную запись, если она есть.
func (u *WorkerUseCaseImpl) fromEmail(ctx context.Context, log *logger.Logger, business *entities.Business, worker *entities.Worker) error {
	email := strings.ToLower(strings.TrimSpace(worker.Profile.Email))
	if email == "" {
		log.Debug(ctx, msgInvalidWorker)
		return fmt.Errorf("%s: %w", errCtxValidatingWorker, entities.ErrWorkerEmailMissing)
	}

	_, err := u.workers.FindByBusinessEmail(ctx, business.ID, email)
	switch {
	case err == nil:
		log.Debug(ctx, msgWorkerDuplicate)
		return fmt.Errorf("%s: %w", errCtxValidatingWorker, entities.ErrWorkerExists)
	case !errors.Is(err, entities.ErrNotFound):
		return fail(ctx, log, msgErrLoadWorker, errCtxValidatingWorker, err)
	}

	account, err := u.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		worker.AccountID = account.ID
	case !errors.Is(err, authentities.ErrAccountNotFound):
		return fail(ctx, log, msgErrLookupAccount, errCtxLinkingAccount, err)
	}
	return nil
}

func (u *WorkerUseCaseImpl) checkServices(ctx context.Context, log *logger.Logger, businessID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := u.catalog.CountInBusiness(ctx, businessID, ids)
	if err != nil {
		return fail(ctx, log, msgErrCountServices, errCtxCheckingServices, err)
	}
	if n != int64(len(ids)) {
		log.Debug(ctx, msgForeignServices, zap.Int64("found", n), zap.Int("requested", len(ids)))
		return fmt.Errorf("%s: %w", errCtxCheckingServices, entities.ErrForeignService)
	}
	return nil
}

// owned загружает исполнителя бизнеса, которым управляет личность.
func (u *WorkerUseCaseImpl) owned(ctx context.Context, log *logger.Logger, id services.Identity, businessID, workerID string) (*entities.Worker, error) {
	business, err := ownedBusiness(ctx, u.businesses, log, id, businessID)
	if err != nil {
		return nil, err
	}

	worker, err := u.workers.FindByID(ctx, workerID)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return nil, fail(ctx, log, msgErrLoadWorker, errCtxLoadingWorker, err)
	}
	if err != nil || worker.BusinessID != business.ID {
		log.Debug(ctx, msgWorkerMissing)
		return nil, fmt.Errorf("%s: %w", errCtxLoadingWorker, entities.ErrWorkerNotFound)
	}
	return worker, nil
}

func (u *WorkerUseCaseImpl) modify(ctx context.Context, method string, id services.Identity, businessID, workerID string, apply func(*entities.Worker) error) (*entities.Worker, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("worker_id", workerID))

	worker, err := u.owned(ctx, log, id, businessID, workerID)
	if err != nil {
		return nil, err
	}
	if err := apply(worker); err != nil {
		log.Debug(ctx, msgInvalidWorker, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingWorker, err)
	}
	return u.save(ctx, log, worker)
}

func (u *WorkerUseCaseImpl) save(ctx context.Context, log *logger.Logger, worker *entities.Worker) (*entities.Worker, error) {
	saved, err := u.workers.Update(ctx, worker)
	if err != nil {
		return nil, fail(ctx, log, msgErrSaveWorker, errCtxSavingWorker, err)
	}
	log.Info(ctx, msgWorkerUpdated)
	return saved, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
