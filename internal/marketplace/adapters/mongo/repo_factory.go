package mongo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"walkydoggy/internal/marketplace/ports/repositories"
)

// RepositoryFactory создает репозитории маркетплейса поверх одной базы.
type RepositoryFactory struct {
	petRepo      repositories.PetRepository
	businessRepo repositories.BusinessRepository
	serviceRepo  repositories.ServiceRepository
	workerRepo   repositories.WorkerRepository
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(db *mongo.Database) *RepositoryFactory {
	return &RepositoryFactory{
		petRepo:      NewPetRepository(db),
		businessRepo: NewBusinessRepository(db),
		serviceRepo:  NewServiceRepository(db),
		workerRepo:   NewWorkerRepository(db),
	}
}

// PetRepository возвращает репозиторий питомцев.
func (f *RepositoryFactory) PetRepository() repositories.PetRepository {
	return f.petRepo
}

// BusinessRepository возвращает репозиторий бизнесов.
func (f *RepositoryFactory) BusinessRepository() repositories.BusinessRepository {
	return f.businessRepo
}

// ServiceRepository возвращает репозиторий услуг.
func (f *RepositoryFactory) ServiceRepository() repositories.ServiceRepository {
	return f.serviceRepo
}

// WorkerRepository возвращает репозиторий исполнителей.
func (f *RepositoryFactory) WorkerRepository() repositories.WorkerRepository {
	return f.workerRepo
}
