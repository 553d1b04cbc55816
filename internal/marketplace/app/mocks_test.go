package app_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
	svc "walkydoggy/internal/marketplace/ports/services"
)

func typed[T any](args mock.Arguments) (T, error) {
	var zero T
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

type mockPetRepository struct {
	mock.Mock
}

func (m *mockPetRepository) Create(ctx context.Context, pet *entities.Pet) (*entities.Pet, error) {
	return typed[*entities.Pet](m.Called(ctx, pet))
}

func (m *mockPetRepository) FindByID(ctx context.Context, id string) (*entities.Pet, error) {
	return typed[*entities.Pet](m.Called(ctx, id))
}

func (m *mockPetRepository) ListAccessible(ctx context.Context, accountID string) ([]*entities.Pet, error) {
	return typed[[]*entities.Pet](m.Called(ctx, accountID))
}

func (m *mockPetRepository) Update(ctx context.Context, pet *entities.Pet) (*entities.Pet, error) {
	return typed[*entities.Pet](m.Called(ctx, pet))
}

func (m *mockPetRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBusinessRepository struct {
	mock.Mock
}

func (m *mockBusinessRepository) Create(ctx context.Context, business *entities.Business) (*entities.Business, error) {
	return typed[*entities.Business](m.Called(ctx, business))
}

func (m *mockBusinessRepository) FindByID(ctx context.Context, id string) (*entities.Business, error) {
	return typed[*entities.Business](m.Called(ctx, id))
}

func (m *mockBusinessRepository) FindByOwner(ctx context.Context, ownerID string) (*entities.Business, error) {
	return typed[*entities.Business](m.Called(ctx, ownerID))
}

func (m *mockBusinessRepository) Update(ctx context.Context, business *entities.Business) (*entities.Business, error) {
	return typed[*entities.Business](m.Called(ctx, business))
}

func (m *mockBusinessRepository) IncrementViews(ctx context.Context, id string) (*entities.Business, error) {
	return typed[*entities.Business](m.Called(ctx, id))
}

func (m *mockBusinessRepository) Search(ctx context.Context, query entities.BusinessSearch) ([]*entities.Business, int64, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]*entities.Business)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockBusinessRepository) Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64, limit int) ([]*entities.Business, error) {
	return typed[[]*entities.Business](m.Called(ctx, point, radiusKm, limit))
}

func (m *mockBusinessRepository) Featured(ctx context.Context, limit int) ([]*entities.Business, error) {
	return typed[[]*entities.Business](m.Called(ctx, limit))
}

type mockServiceRepository struct {
	mock.Mock
}

func (m *mockServiceRepository) Create(ctx context.Context, service *entities.Service) (*entities.Service, error) {
	return typed[*entities.Service](m.Called(ctx, service))
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*entities.Service, error) {
	return typed[*entities.Service](m.Called(ctx, id))
}

func (m *mockServiceRepository) ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]*entities.Service, error) {
	return typed[[]*entities.Service](m.Called(ctx, businessID, activeOnly))
}

func (m *mockServiceRepository) Search(ctx context.Context, query entities.ServiceSearch) ([]*entities.Service, int64, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]*entities.Service)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockServiceRepository) Update(ctx context.Context, service *entities.Service) (*entities.Service, error) {
	return typed[*entities.Service](m.Called(ctx, service))
}

func (m *mockServiceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockServiceRepository) CountInBusiness(ctx context.Context, businessID string, ids []string) (int64, error) {
	args := m.Called(ctx, businessID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type mockWorkerRepository struct {
	mock.Mock
}

func (m *mockWorkerRepository) Create(ctx context.Context, worker *entities.Worker) (*entities.Worker, error) {
	return typed[*entities.Worker](m.Called(ctx, worker))
}

func (m *mockWorkerRepository) FindByID(ctx context.Context, id string) (*entities.Worker, error) {
	return typed[*entities.Worker](m.Called(ctx, id))
}

func (m *mockWorkerRepository) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Worker, error) {
	return typed[[]*entities.Worker](m.Called(ctx, businessID))
}

func (m *mockWorkerRepository) FindByBusinessEmail(ctx context.Context, businessID, email string) (*entities.Worker, error) {
	return typed[*entities.Worker](m.Called(ctx, businessID, email))
}

func (m *mockWorkerRepository) FindByBusinessAccount(ctx context.Context, businessID, accountID string) (*entities.Worker, error) {
	return typed[*entities.Worker](m.Called(ctx, businessID, accountID))
}

func (m *mockWorkerRepository) Update(ctx context.Context, worker *entities.Worker) (*entities.Worker, error) {
	return typed[*entities.Worker](m.Called(ctx, worker))
}

func (m *mockWorkerRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWorkerRepository) NearbyOnline(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Worker, error) {
	return typed[[]*entities.Worker](m.Called(ctx, point, radiusKm))
}

type mockAccountDirectory struct {
	mock.Mock
}

func (m *mockAccountDirectory) FindByEmail(ctx context.Context, email string) (*svc.AccountRef, error) {
	return typed[*svc.AccountRef](m.Called(ctx, email))
}

func (m *mockAccountDirectory) FindByID(ctx context.Context, id string) (*svc.AccountRef, error) {
	return typed[*svc.AccountRef](m.Called(ctx, id))
}

func (m *mockAccountDirectory) LinkBusiness(ctx context.Context, accountID, businessID string) error {
	return m.Called(ctx, accountID, businessID).Error(0)
}

type mockPhotoStorage struct {
	mock.Mock
}

func (m *mockPhotoStorage) PresignUpload(ctx context.Context, key, contentType string) (*svc.PresignedUpload, error) {
	return typed[*svc.PresignedUpload](m.Called(ctx, key, contentType))
}

func (m *mockPhotoStorage) Delete(ctx context.Context, publicURL string) error {
	return m.Called(ctx, publicURL).Error(0)
}

type fixture struct {
	pets       *mockPetRepository
	businesses *mockBusinessRepository
	catalog    *mockServiceRepository
	workers    *mockWorkerRepository
	accounts   *mockAccountDirectory
	photos     *mockPhotoStorage
}

func newFixture() *fixture {
	return &fixture{
		pets:       new(mockPetRepository),
		businesses: new(mockBusinessRepository),
		catalog:    new(mockServiceRepository),
		workers:    new(mockWorkerRepository),
		accounts:   new(mockAccountDirectory),
		photos:     new(mockPhotoStorage),
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.pets.AssertExpectations(t)
	f.businesses.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
	f.workers.AssertExpectations(t)
	f.accounts.AssertExpectations(t)
	f.photos.AssertExpectations(t)
}

var (
	owner    = services.Identity{AccountID: "owner-1", Email: "owner@example.com", Role: authentities.RolePetOwner}
	coOwner  = services.Identity{AccountID: "co-1", Email: "co@example.com", Role: authentities.RolePetOwner}
	stranger = services.Identity{AccountID: "stranger-1", Email: "x@example.com", Role: authentities.RolePetOwner}
	admin    = services.Identity{AccountID: "admin-1", Email: "admin@example.com", Role: authentities.RoleAdmin}
	seller   = services.Identity{AccountID: "biz-owner-1", Email: "biz@example.com", Role: authentities.RoleBusiness}
)
