package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"walkydoggy/internal/marketplace/adapters/mongo"
	"walkydoggy/internal/marketplace/domain/entities"
)

const ns = "walkydoggy.test"

var (
	petID      = primitive.NewObjectID()
	businessID = primitive.NewObjectID()
	serviceID  = primitive.NewObjectID()
	workerID   = primitive.NewObjectID()
	stamp      = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func petRow(name string) bson.D {
	return bson.D{
		{Key: "_id", Value: petID},
		{Key: "name", Value: name},
		{Key: "species", Value: "dog"},
		{Key: "ownerId", Value: "owner-1"},
		{Key: "coOwners", Value: bson.A{"co-1"}},
		{Key: "photos", Value: bson.A{}},
		{Key: "status", Value: "active"},
		{Key: "medicalInfo", Value: bson.D{
			{Key: "allergies", Value: bson.A{"chicken"}},
		}},
		{Key: "createdAt", Value: stamp},
		{Key: "updatedAt", Value: stamp},
	}
}

func businessRow(views int64) bson.D {
	return bson.D{
		{Key: "_id", Value: businessID},
		{Key: "name", Value: "Happy Paws"},
		{Key: "ownerUserId", Value: "biz-owner-1"},
		{Key: "businessType", Value: "company"},
		{Key: "status", Value: "active"},
		{Key: "address", Value: bson.D{
			{Key: "city", Value: "Madrid"},
			{Key: "coordinates", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{-3.7038, 40.4168}},
			}},
		}},
		{Key: "rating", Value: bson.D{{Key: "average", Value: 4.5}, {Key: "count", Value: 12}}},
		{Key: "views", Value: views},
	}
}

func workerRow() bson.D {
	return bson.D{
		{Key: "_id", Value: workerID},
		{Key: "businessId", Value: businessID},
		{Key: "userId", Value: "acc-7"},
		{Key: "profile", Value: bson.D{{Key: "firstName", Value: "Lucia"}, {Key: "email", Value: "lucia@example.com"}}},
		{Key: "services", Value: bson.A{serviceID}},
		{Key: "status", Value: bson.D{{Key: "isOnline", Value: true}, {Key: "currentStatus", Value: "available"}}},
		{Key: "currentLocation", Value: bson.D{
			{Key: "type", Value: "Point"},
			{Key: "coordinates", Value: bson.A{2.1734, 41.3851}},
		}},
		{Key: "locationUpdatedAt", Value: stamp},
		{Key: "isActive", Value: true},
	}
}

func countRow(n int64) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func TestPetRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("create assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		pet, err := mongo.NewPetRepository(mt.DB).Create(context.Background(), &entities.Pet{
			Name: "Rex", Species: entities.SpeciesDog, OwnerID: "owner-1", Status: entities.PetActive,
		})
		require.NoError(mt, err)
		assert.Len(mt, pet.ID, 24)
		assert.False(mt, pet.CreatedAt.IsZero())
		assert.NotNil(mt, pet.CoOwners)
	})

	mt.Run("find decodes document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, petRow("Rex")))

		pet, err := mongo.NewPetRepository(mt.DB).FindByID(context.Background(), petID.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, petID.Hex(), pet.ID)
		assert.Equal(mt, "Rex", pet.Name)
		assert.Equal(mt, []string{"co-1"}, pet.CoOwners)
		assert.Equal(mt, []string{"chicken"}, pet.Medical.Allergies)
		assert.True(mt, pet.IsCoOwner("co-1"))
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := mongo.NewPetRepository(mt.DB).FindByID(context.Background(), petID.Hex())
		assert.ErrorIs(mt, err, entities.ErrPetNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		_, err := mongo.NewPetRepository(mt.DB).FindByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, entities.ErrNotFound)
	})

	mt.Run("list accessible", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, petRow("Rex"), petRow("Luna")))

		pets, err := mongo.NewPetRepository(mt.DB).ListAccessible(context.Background(), "co-1")
		require.NoError(mt, err)
		require.Len(mt, pets, 2)
		assert.Equal(mt, "Luna", pets[1].Name)
	})

	mt.Run("update returns stored document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: petRow("Max")}))

		pet, err := mongo.NewPetRepository(mt.DB).Update(context.Background(), &entities.Pet{ID: petID.Hex(), Name: "Max"})
		require.NoError(mt, err)
		assert.Equal(mt, "Max", pet.Name)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := mongo.NewPetRepository(mt.DB).Delete(context.Background(), petID.Hex())
		assert.ErrorIs(mt, err, entities.ErrPetNotFound)
	})

	mt.Run("driver failure is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom", Name: "BadValue"}))

		_, err := mongo.NewPetRepository(mt.DB).ListAccessible(context.Background(), "owner-1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, entities.ErrNotFound)
	})
}

func TestBusinessRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("duplicate owner is a conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := mongo.NewBusinessRepository(mt.DB).Create(context.Background(), &entities.Business{Name: "Happy Paws", OwnerID: "biz-owner-1"})
		assert.ErrorIs(mt, err, entities.ErrConflict)
	})

	mt.Run("find by owner maps address", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, businessRow(3)))

		b, err := mongo.NewBusinessRepository(mt.DB).FindByOwner(context.Background(), "biz-owner-1")
		require.NoError(mt, err)
		assert.Equal(mt, businessID.Hex(), b.ID)
		assert.Equal(mt, entities.GeoPoint{Longitude: -3.7038, Latitude: 40.4168}, b.Address.Coordinates)
		assert.Equal(mt, entities.Rating{Average: 4.5, Count: 12}, b.Rating)
	})

	mt.Run("increment views", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: businessRow(4)}))

		b, err := mongo.NewBusinessRepository(mt.DB).IncrementViews(context.Background(), businessID.Hex())
		require.NoError(mt, err)
		assert.EqualValues(mt, 4, b.Views)
	})

	mt.Run("increment views on missing business", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := mongo.NewBusinessRepository(mt.DB).IncrementViews(context.Background(), businessID.Hex())
		assert.ErrorIs(mt, err, entities.ErrBusinessNotFound)
	})

	mt.Run("search returns page and total", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, businessRow(1), businessRow(2)),
			countRow(7),
		)
		near := entities.GeoPoint{Longitude: -3.7, Latitude: 40.4}

		items, total, err := mongo.NewBusinessRepository(mt.DB).Search(context.Background(), entities.BusinessSearch{
			Near: &near, RadiusKm: 50, SortBy: entities.SortDistance, Page: 1, Limit: 2,
		})
		require.NoError(mt, err)
		assert.Len(mt, items, 2)
		assert.EqualValues(mt, 7, total)
	})

	mt.Run("nearby and featured", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, businessRow(1)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		repo := mongo.NewBusinessRepository(mt.DB)

		nearby, err := repo.Nearby(context.Background(), entities.GeoPoint{Longitude: -3.7, Latitude: 40.4}, 10, 20)
		require.NoError(mt, err)
		assert.Len(mt, nearby, 1)

		featured, err := repo.Featured(context.Background(), 10)
		require.NoError(mt, err)
		assert.Empty(mt, featured)
	})
}

func TestServiceRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("create requires a valid business", func(mt *mtest.T) {
		_, err := mongo.NewServiceRepository(mt.DB).Create(context.Background(), &entities.Service{BusinessID: "bad"})
		assert.ErrorIs(mt, err, entities.ErrBusinessNotFound)
	})

	mt.Run("create keeps business id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s, err := mongo.NewServiceRepository(mt.DB).Create(context.Background(), &entities.Service{
			BusinessID: businessID.Hex(), Name: "Walk", Category: entities.CategoryWalking,
		})
		require.NoError(mt, err)
		assert.Equal(mt, businessID.Hex(), s.BusinessID)
	})

	mt.Run("count in business", func(mt *mtest.T) {
		mt.AddMockResponses(countRow(1))

		n, err := mongo.NewServiceRepository(mt.DB).CountInBusiness(context.Background(), businessID.Hex(), []string{serviceID.Hex(), "bogus"})
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, n)
	})

	mt.Run("count with no valid ids", func(mt *mtest.T) {
		n, err := mongo.NewServiceRepository(mt.DB).CountInBusiness(context.Background(), businessID.Hex(), []string{"bogus"})
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})

	mt.Run("search", func(mt *mtest.T) {
		row := bson.D{
			{Key: "_id", Value: serviceID},
			{Key: "businessId", Value: businessID},
			{Key: "name", Value: "Walk"},
			{Key: "category", Value: "walking"},
			{Key: "pricing", Value: bson.D{{Key: "baseprice", Value: 15.0}, {Key: "currency", Value: "EUR"}}},
			{Key: "isActive", Value: true},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, row), countRow(1))

		items, total, err := mongo.NewServiceRepository(mt.DB).Search(context.Background(), entities.ServiceSearch{
			Text: "walk", Page: 1, Limit: 20,
		})
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.EqualValues(mt, 1, total)
		assert.Equal(mt, 15.0, items[0].Pricing.BasePrice)
		assert.Equal(mt, businessID.Hex(), items[0].BusinessID)
	})
}

func TestWorkerRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("nearby online decodes location", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, workerRow()))

		workers, err := mongo.NewWorkerRepository(mt.DB).NearbyOnline(context.Background(), entities.GeoPoint{Longitude: 2.17, Latitude: 41.38}, 10)
		require.NoError(mt, err)
		require.Len(mt, workers, 1)

		w := workers[0]
		assert.Equal(mt, "acc-7", w.AccountID)
		assert.Equal(mt, []string{serviceID.Hex()}, w.Services)
		require.NotNil(mt, w.Location)
		assert.Equal(mt, entities.GeoPoint{Longitude: 2.1734, Latitude: 41.3851}, w.Location.Point)
		assert.Equal(mt, stamp, w.Location.UpdatedAt)
		assert.Equal(mt, entities.WorkerAvailable, w.Status.State)
	})

	mt.Run("find by business email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := mongo.NewWorkerRepository(mt.DB).FindByBusinessEmail(context.Background(), businessID.Hex(), "lucia@example.com")
		assert.ErrorIs(mt, err, entities.ErrWorkerNotFound)
	})

	mt.Run("update keeps location", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: workerRow()}))

		w, err := mongo.NewWorkerRepository(mt.DB).Update(context.Background(), &entities.Worker{
			ID:         workerID.Hex(),
			BusinessID: businessID.Hex(),
			Location:   &entities.WorkerLocation{Point: entities.GeoPoint{Longitude: 2.1734, Latitude: 41.3851}, UpdatedAt: stamp},
		})
		require.NoError(mt, err)
		assert.NotNil(mt, w.Location)
	})

	mt.Run("list of unknown business is empty", func(mt *mtest.T) {
		workers, err := mongo.NewWorkerRepository(mt.DB).ListByBusiness(context.Background(), "nope")
		require.NoError(mt, err)
		assert.Empty(mt, workers)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, mongo.NewWorkerRepository(mt.DB).Delete(context.Background(), workerID.Hex()))
	})
}

func TestIndexes(t *testing.T) {
	idx := mongo.Indexes()

	for _, coll := range []string{mongo.PetsCollection, mongo.BusinessesCollection, mongo.ServicesCollection, mongo.WorkersCollection} {
		assert.NotEmpty(t, idx[coll], coll)
	}

	var geo int
	for _, models := range idx {
		for _, m := range models {
			for _, e := range m.Keys.(bson.D) {
				if e.Value == "2dsphere" {
					geo++
				}
			}
		}
	}
	assert.Equal(t, 2, geo)
}

func TestEnsureIndexes(t *testing.T) {
	mt := newMock(t)

	mt.Run("creates all", func(mt *mtest.T) {
		for range mongo.Indexes() {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		require.NoError(mt, mongo.EnsureIndexes(context.Background(), mt.DB))
	})

	mt.Run("propagates failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Message: "conflict", Name: "IndexOptionsConflict"}))

		assert.Error(mt, mongo.EnsureIndexes(context.Background(), mt.DB))
	})
}
