// Package repositories описывает выходные порты хранилища маркетплейса.
// Поиск по идентификатору возвращает ошибку класса entities.ErrNotFound, в том числе для некорректного идентификатора.
package repositories

import (
	"context"

	"walkydoggy/internal/marketplace/domain/entities"
)

// PetRepository хранилище питомцев. Удаление физическое.
type PetRepository interface {
	Create(ctx context.Context, pet *entities.Pet) (*entities.Pet, error)

	FindByID(ctx context.Context, id string) (*entities.Pet, error)

	// ListAccessible питомцы, которыми accountID владеет или совладеет, кроме умерших, новые первыми.
	ListAccessible(ctx context.Context, accountID string) ([]*entities.Pet, error)

	Update(ctx context.Context, pet *entities.Pet) (*entities.Pet, error)

	Delete(ctx context.Context, id string) error
}

// BusinessRepository хранилище профилей бизнеса.
type BusinessRepository interface {
	Create(ctx context.Context, business *entities.Business) (*entities.Business, error)

	FindByID(ctx context.Context, id string) (*entities.Business, error)

	// FindByOwner профиль бизнеса учетной записи в любом статусе.
	FindByOwner(ctx context.Context, ownerID string) (*entities.Business, error)

	Update(ctx context.Context, business *entities.Business) (*entities.Business, error)

	// IncrementViews атомарно увеличивает счетчик просмотров и возвращает профиль.
	IncrementViews(ctx context.Context, id string) (*entities.Business, error)

	// Search активные бизнесы по тексту, типу и окрестности точки, с общим числом совпадений.
	Search(ctx context.Context, query entities.BusinessSearch) ([]*entities.Business, int64, error)

	// Nearby активные бизнесы в радиусе, ближайшие первыми.
	Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64, limit int) ([]*entities.Business, error)

	// Featured активные избранные бизнесы по убыванию рейтинга.
	Featured(ctx context.Context, limit int) ([]*entities.Business, error)
}

// ServiceRepository хранилище услуг.
type ServiceRepository interface {
	Create(ctx context.Context, service *entities.Service) (*entities.Service, error)

	FindByID(ctx context.Context, id string) (*entities.Service, error)

	// ListByBusiness услуги бизнеса, activeOnly скрывает выключенные.
	ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]*entities.Service, error)

	// Search активные услуги по тексту и категории с общим числом совпадений.
	Search(ctx context.Context, query entities.ServiceSearch) ([]*entities.Service, int64, error)

	Update(ctx context.Context, service *entities.Service) (*entities.Service, error)

	Delete(ctx context.Context, id string) error

	// CountInBusiness сколько из ids принадлежит бизнесу.
	CountInBusiness(ctx context.Context, businessID string, ids []string) (int64, error)
}

// WorkerRepository хранилище исполнителей.
type WorkerRepository interface {
	Create(ctx context.Context, worker *entities.Worker) (*entities.Worker, error)

	FindByID(ctx context.Context, id string) (*entities.Worker, error)

	ListByBusiness(ctx context.Context, businessID string) ([]*entities.Worker, error)

	// FindByBusinessEmail исполнитель бизнеса с таким email профиля.
	FindByBusinessEmail(ctx context.Context, businessID, email string) (*entities.Worker, error)

	// FindByBusinessAccount исполнитель бизнеса, привязанный к учетной записи.
	FindByBusinessAccount(ctx context.Context, businessID, accountID string) (*entities.Worker, error)

	Update(ctx context.Context, worker *entities.Worker) (*entities.Worker, error)

	Delete(ctx context.Context, id string) error

	// NearbyOnline активные исполнители онлайн в радиусе, ближайшие первыми.
	NearbyOnline(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Worker, error)
}
