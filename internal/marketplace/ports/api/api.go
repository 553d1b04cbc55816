// Package api описывает входные порты маркетплейса.
package api

import (
	"context"

	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
	svc "walkydoggy/internal/marketplace/ports/services"
)

// PhotoUpload питомец с уже добавленной ссылкой и подписанная ссылка для загрузки файла.
type PhotoUpload struct {
	Pet    *entities.Pet
	Upload *svc.PresignedUpload
}

// PetUseCase питомцы и их совладельцы.
type PetUseCase interface {
	List(ctx context.Context, id services.Identity) ([]*entities.Pet, error)

	Get(ctx context.Context, id services.Identity, petID string) (*entities.Pet, error)

	Create(ctx context.Context, id services.Identity, pet *entities.Pet) (*entities.Pet, error)

	Update(ctx context.Context, id services.Identity, petID string, patch entities.PetPatch) (*entities.Pet, error)

	Delete(ctx context.Context, id services.Identity, petID string) error

	AddCoOwner(ctx context.Context, id services.Identity, petID, email string) (*entities.Pet, error)

	RemoveCoOwner(ctx context.Context, id services.Identity, petID, coOwnerID string) (*entities.Pet, error)

	AddPhoto(ctx context.Context, id services.Identity, petID, contentType string) (*PhotoUpload, error)

	DeletePhoto(ctx context.Context, id services.Identity, petID, photoURL string) (*entities.Pet, error)

	AddVaccination(ctx context.Context, id services.Identity, petID string, v entities.Vaccination) (*entities.Pet, error)

	UpdateMedicalInfo(ctx context.Context, id services.Identity, petID string, update entities.MedicalUpdate) (*entities.Pet, error)
}

// BusinessPage страница результатов поиска бизнесов.
type BusinessPage struct {
	Items []*entities.Business
	Page  entities.Page
}

// BusinessUseCase профили бизнеса.
type BusinessUseCase interface {
	Search(ctx context.Context, query entities.BusinessSearch) (*BusinessPage, error)

	Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Business, error)

	Featured(ctx context.Context, limit int) ([]*entities.Business, error)

	// Get возвращает профиль и увеличивает счетчик просмотров.
	Get(ctx context.Context, businessID string) (*entities.Business, error)

	Mine(ctx context.Context, id services.Identity) (*entities.Business, error)

	// Owner идентификатор учетной записи владельца бизнеса.
	Owner(ctx context.Context, businessID string) (string, error)

	Create(ctx context.Context, id services.Identity, business *entities.Business) (*entities.Business, error)

	Update(ctx context.Context, id services.Identity, businessID string, patch entities.BusinessPatch) (*entities.Business, error)

	// Delete закрывает бизнес.
	Delete(ctx context.Context, id services.Identity, businessID string) error

	AddCertification(ctx context.Context, id services.Identity, businessID string, cert entities.Certification) (*entities.Business, error)

	UpdateOperatingHours(ctx context.Context, id services.Identity, businessID string, hours []entities.OperatingHours) (*entities.Business, error)

	UpdatePaymentAccount(ctx context.Context, id services.Identity, businessID, stripeAccountID string, status entities.PaymentStatus) (*entities.Business, error)
}

// ServicePage страница результатов поиска услуг.
type ServicePage struct {
	Items []*entities.Service
	Page  entities.Page
}

// CatalogUseCase услуги бизнесов.
type CatalogUseCase interface {
	// ListByBusiness услуги бизнеса. Выключенные видит только тот, кто управляет бизнесом.
	ListByBusiness(ctx context.Context, viewer *services.Identity, businessID string) ([]*entities.Service, error)

	Search(ctx context.Context, query entities.ServiceSearch) (*ServicePage, error)

	ListByCategory(ctx context.Context, category entities.Category, page, limit int) (*ServicePage, error)

	Get(ctx context.Context, serviceID string) (*entities.Service, error)

	Create(ctx context.Context, id services.Identity, businessID string, service *entities.Service) (*entities.Service, error)

	Update(ctx context.Context, id services.Identity, businessID, serviceID string, patch entities.ServicePatch) (*entities.Service, error)

	Delete(ctx context.Context, id services.Identity, businessID, serviceID string) error

	// Toggle включает или выключает услугу.
	Toggle(ctx context.Context, id services.Identity, businessID, serviceID string) (*entities.Service, error)
}

// WorkerUseCase исполнители бизнесов.
type WorkerUseCase interface {
	Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Worker, error)

	Get(ctx context.Context, workerID string) (*entities.Worker, error)

	List(ctx context.Context, id services.Identity, businessID string) ([]*entities.Worker, error)

	Create(ctx context.Context, id services.Identity, businessID string, input entities.WorkerInput) (*entities.Worker, error)

	Update(ctx context.Context, id services.Identity, businessID, workerID string, patch entities.WorkerPatch) (*entities.Worker, error)

	Delete(ctx context.Context, id services.Identity, businessID, workerID string) error

	Toggle(ctx context.Context, id services.Identity, businessID, workerID string) (*entities.Worker, error)

	UpdateLocation(ctx context.Context, id services.Identity, businessID, workerID string, point entities.GeoPoint) (*entities.Worker, error)

	SetOnline(ctx context.Context, id services.Identity, businessID, workerID string, online bool) (*entities.Worker, error)

	AssignServices(ctx context.Context, id services.Identity, businessID, workerID string, serviceIDs []string) (*entities.Worker, error)

	AddCertification(ctx context.Context, id services.Identity, businessID, workerID string, cert entities.Certification) (*entities.Worker, error)

	UpdateAvailability(ctx context.Context, id services.Identity, businessID, workerID string, update entities.AvailabilityUpdate) (*entities.Worker, error)
}
