package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/ports/repositories"
)

type workerProfileDoc struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName,omitempty"`
	Email     string `bson:"email,omitempty"`
	Phone     string `bson:"phone,omitempty"`
	Avatar    string `bson:"avatar,omitempty"`
	Bio       string `bson:"bio,omitempty"`
}

type workerStatusDoc struct {
	IsOnline   bool                 `bson:"isOnline"`
	State      entities.WorkerState `bson:"currentStatus"`
	LastSeenAt *time.Time           `bson:"lastSeenAt,omitempty"`
}

type workerDoc struct {
	ID                primitive.ObjectID          `bson:"_id"`
	BusinessID        primitive.ObjectID          `bson:"businessId"`
	AccountID         string                      `bson:"userId,omitempty"`
	Profile           workerProfileDoc            `bson:"profile"`
	Services          []primitive.ObjectID        `bson:"services"`
	Specializations   []string                    `bson:"specializations"`
	Certifications    []entities.Certification    `bson:"certifications"`
	ExperienceYears   int                         `bson:"experience"`
	Availability      entities.WorkerAvailability `bson:"availability"`
	Status            workerStatusDoc             `bson:"status"`
	Location          *geoPoint                   `bson:"currentLocation,omitempty"`
	LocationUpdatedAt *time.Time                  `bson:"locationUpdatedAt,omitempty"`
	HourlyRate        *float64                    `bson:"hourlyRate,omitempty"`
	Rating            ratingDoc                   `bson:"rating"`
	IsActive          bool                        `bson:"isActive"`
	IsVerified        bool                        `bson:"isVerified"`
	CreatedAt         time.Time                   `bson:"createdAt"`
	UpdatedAt         time.Time                   `bson:"updatedAt"`
}

func toWorkerDoc(w *entities.Worker, id, businessID primitive.ObjectID) *workerDoc {
	doc := &workerDoc{
		ID:         id,
		BusinessID: businessID,
		AccountID:  w.AccountID,
		Profile: workerProfileDoc{
			FirstName: w.Profile.FirstName,
			LastName:  w.Profile.LastName,
			Email:     w.Profile.Email,
			Phone:     w.Profile.Phone,
			Avatar:    w.Profile.Avatar,
			Bio:       w.Profile.Bio,
		},
		Services:        objectIDs(w.Services),
		Specializations: nonNil(w.Specializations),
		Certifications:  nonNil(w.Certifications),
		ExperienceYears: w.ExperienceYears,
		Availability:    w.Availability,
		Status: workerStatusDoc{
			IsOnline:   w.Status.IsOnline,
			State:      w.Status.State,
			LastSeenAt: w.Status.LastSeenAt,
		},
		HourlyRate: w.HourlyRate,
		Rating:     toRatingDoc(w.Rating),
		IsActive:   w.IsActive,
		IsVerified: w.IsVerified,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
	if w.Location != nil {
		p := toGeoPoint(w.Location.Point)
		at := w.Location.UpdatedAt
		doc.Location, doc.LocationUpdatedAt = &p, &at
	}
	return doc
}

func (d *workerDoc) entity() *entities.Worker {
	w := &entities.Worker{
		ID:         d.ID.Hex(),
		BusinessID: d.BusinessID.Hex(),
		AccountID:  d.AccountID,
		Profile: entities.WorkerProfile{
			FirstName: d.Profile.FirstName,
			LastName:  d.Profile.LastName,
			Email:     d.Profile.Email,
			Phone:     d.Profile.Phone,
			Avatar:    d.Profile.Avatar,
			Bio:       d.Profile.Bio,
		},
		Services:        hexes(d.Services),
		Specializations: d.Specializations,
		Certifications:  d.Certifications,
		ExperienceYears: d.ExperienceYears,
		Availability:    d.Availability,
		Status: entities.WorkerStatus{
			IsOnline:   d.Status.IsOnline,
			State:      d.Status.State,
			LastSeenAt: d.Status.LastSeenAt,
		},
		HourlyRate: d.HourlyRate,
		Rating:     d.Rating.entity(),
		IsActive:   d.IsActive,
		IsVerified: d.IsVerified,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Location != nil {
		loc := &entities.WorkerLocation{Point: d.Location.entity()}
		if d.LocationUpdatedAt != nil {
			loc.UpdatedAt = *d.LocationUpdatedAt
		}
		w.Location = loc
	}
	return w
}

// WorkerRepository реализует repositories.WorkerRepository.
type WorkerRepository struct {
	coll *mongo.Collection
}

// NewWorkerRepository создает хранилище исполнителей.
func NewWorkerRepository(db *mongo.Database) repositories.WorkerRepository {
	return &WorkerRepository{coll: db.Collection(WorkersCollection)}
}

// Create сохраняет исполнителя.
func (r *WorkerRepository) Create(ctx context.Context, worker *entities.Worker) (*entities.Worker, error) {
	log := repoLog(ctx, "worker", "Create")

	businessID, err := objectID(worker.BusinessID, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}

	ts := now()
	worker.CreatedAt, worker.UpdatedAt = ts, ts
	doc := toWorkerDoc(worker, primitive.NewObjectID(), businessID)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrWorkerNotFound, "inserting worker")
	}
	return doc.entity(), nil
}

// FindByID находит исполнителя.
func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*entities.Worker, error) {
	oid, err := objectID(id, entities.ErrWorkerNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "FindByID", bson.D{{Key: "_id", Value: oid}})
}

// FindByBusinessEmail находит исполнителя бизнеса по email профиля.
func (r *WorkerRepository) FindByBusinessEmail(ctx context.Context, businessID, email string) (*entities.Worker, error) {
	oid, err := objectID(businessID, entities.ErrWorkerNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "FindByBusinessEmail", bson.D{
		{Key: "businessId", Value: oid},
		{Key: "profile.email", Value: email},
	})
}

// FindByBusinessAccount находит исполнителя бизнеса, связанного с аккаунтом.
func (r *WorkerRepository) FindByBusinessAccount(ctx context.Context, businessID, accountID string) (*entities.Worker, error) {
	oid, err := objectID(businessID, entities.ErrWorkerNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "FindByBusinessAccount", bson.D{
		{Key: "businessId", Value: oid},
		{Key: "userId", Value: accountID},
	})
}

func (r *WorkerRepository) findOne(ctx context.Context, method string, filter bson.D) (*entities.Worker, error) {
	log := repoLog(ctx, "worker", method)

	var doc workerDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrWorkerNotFound, "querying worker")
	}
	return doc.entity(), nil
}

// ListByBusiness исполнители бизнеса, лучшие первыми.
func (r *WorkerRepository) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Worker, error) {
	log := repoLog(ctx, "worker", "ListByBusiness")

	oid, err := objectID(businessID, entities.ErrBusinessNotFound)
	if err != nil {
		return []*entities.Worker{}, nil
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "rating.average", Value: -1},
		{Key: "createdAt", Value: -1},
	})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "businessId", Value: oid}}, opts)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrWorkerNotFound, "listing workers")
	}
	return decodeAll(ctx, cur, (*workerDoc).entity)
}

// Update заменяет документ исполнителя.
func (r *WorkerRepository) Update(ctx context.Context, worker *entities.Worker) (*entities.Worker, error) {
	log := repoLog(ctx, "worker", "Update")

	oid, err := objectID(worker.ID, entities.ErrWorkerNotFound)
	if err != nil {
		return nil, err
	}
	businessID, err := objectID(worker.BusinessID, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}

	worker.UpdatedAt = now()
	var doc workerDoc
	err = r.coll.FindOneAndReplace(ctx, bson.D{{Key: "_id", Value: oid}}, toWorkerDoc(worker, oid, businessID),
		options.FindOneAndReplace().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrWorkerNotFound, "updating worker")
	}
	return doc.entity(), nil
}

// Delete удаляет исполнителя.
func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	log := repoLog(ctx, "worker", "Delete")

	oid, err := objectID(id, entities.ErrWorkerNotFound)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return storeError(ctx, log, err, entities.ErrWorkerNotFound, "deleting worker")
	}
	if res.DeletedCount < 1 {
		return entities.ErrWorkerNotFound
	}
	return nil
}

// NearbyOnline активные исполнители в сети в радиусе, ближайшие первыми.
func (r *WorkerRepository) NearbyOnline(ctx context.Context, point entities.GeoPoint, radiusKm float64) ([]*entities.Worker, error) {
	log := repoLog(ctx, "worker", "NearbyOnline")

	filter := bson.D{
		{Key: "currentLocation", Value: nearFilter(point, radiusKm)},
		{Key: "isActive", Value: true},
		{Key: "status.isOnline", Value: true},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrWorkerNotFound, "querying nearby workers")
	}
	return decodeAll(ctx, cur, (*workerDoc).entity)
}
