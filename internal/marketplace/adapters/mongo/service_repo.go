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

type serviceDoc struct {
	ID                 primitive.ObjectID           `bson:"_id"`
	BusinessID         primitive.ObjectID           `bson:"businessId"`
	Name               string                       `bson:"name"`
	Category           entities.Category            `bson:"category"`
	Description        string                       `bson:"description,omitempty"`
	Pricing            entities.Pricing             `bson:"pricing"`
	DurationMinutes    int                          `bson:"duration"`
	PetTypes           []entities.Species           `bson:"petTypes"`
	PetSizes           []string                     `bson:"petSizes"`
	Images             []string                     `bson:"images"`
	Availability       entities.ServiceAvailability `bson:"availability"`
	Capacity           entities.Capacity            `bson:"capacity"`
	AddOns             []entities.AddOn             `bson:"addOns"`
	CancellationPolicy string                       `bson:"cancellationPolicy,omitempty"`
	Tags               []string                     `bson:"tags"`
	Rating             ratingDoc                    `bson:"rating"`
	IsActive           bool                         `bson:"isActive"`
	Featured           bool                         `bson:"featured"`
	CreatedAt          time.Time                    `bson:"createdAt"`
	UpdatedAt          time.Time                    `bson:"updatedAt"`
}

func toServiceDoc(s *entities.Service, id, businessID primitive.ObjectID) *serviceDoc {
	return &serviceDoc{
		ID:                 id,
		BusinessID:         businessID,
		Name:               s.Name,
		Category:           s.Category,
		Description:        s.Description,
		Pricing:            s.Pricing,
		DurationMinutes:    s.DurationMinutes,
		PetTypes:           nonNil(s.PetTypes),
		PetSizes:           nonNil(s.PetSizes),
		Images:             nonNil(s.Images),
		Availability:       s.Availability,
		Capacity:           s.Capacity,
		AddOns:             nonNil(s.AddOns),
		CancellationPolicy: s.CancellationPolicy,
		Tags:               nonNil(s.Tags),
		Rating:             toRatingDoc(s.Rating),
		IsActive:           s.IsActive,
		Featured:           s.Featured,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (d *serviceDoc) entity() *entities.Service {
	return &entities.Service{
		ID:                 d.ID.Hex(),
		BusinessID:         d.BusinessID.Hex(),
		Name:               d.Name,
		Category:           d.Category,
		Description:        d.Description,
		Pricing:            d.Pricing,
		DurationMinutes:    d.DurationMinutes,
		PetTypes:           d.PetTypes,
		PetSizes:           d.PetSizes,
		Images:             d.Images,
		Availability:       d.Availability,
		Capacity:           d.Capacity,
		AddOns:             d.AddOns,
		CancellationPolicy: d.CancellationPolicy,
		Tags:               d.Tags,
		Rating:             d.Rating.entity(),
		IsActive:           d.IsActive,
		Featured:           d.Featured,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// ServiceRepository реализует repositories.ServiceRepository.
type ServiceRepository struct {
	coll *mongo.Collection
}

// NewServiceRepository создает хранилище каталога услуг.
func NewServiceRepository(db *mongo.Database) repositories.ServiceRepository {
	return &ServiceRepository{coll: db.Collection(ServicesCollection)}
}

// Create сохраняет услугу бизнеса.
func (r *ServiceRepository) Create(ctx context.Context, service *entities.Service) (*entities.Service, error) {
	log := repoLog(ctx, "service", "Create")

	businessID, err := objectID(service.BusinessID, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}

	ts := now()
	service.CreatedAt, service.UpdatedAt = ts, ts
	doc := toServiceDoc(service, primitive.NewObjectID(), businessID)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrServiceNotFound, "inserting service")
	}
	return doc.entity(), nil
}

// FindByID находит услугу.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*entities.Service, error) {
	log := repoLog(ctx, "service", "FindByID")

	oid, err := objectID(id, entities.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}

	var doc serviceDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrServiceNotFound, "querying service")
	}
	return doc.entity(), nil
}

// ListByBusiness услуги бизнеса, избранные и лучшие первыми.
func (r *ServiceRepository) ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]*entities.Service, error) {
	log := repoLog(ctx, "service", "ListByBusiness")

	oid, err := objectID(businessID, entities.ErrBusinessNotFound)
	if err != nil {
		return []*entities.Service{}, nil
	}

	filter := bson.D{{Key: "businessId", Value: oid}}
	if activeOnly {
		filter = append(filter, bson.E{Key: "isActive", Value: true})
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "featured", Value: -1},
		{Key: "rating.average", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrServiceNotFound, "listing services")
	}
	return decodeAll(ctx, cur, (*serviceDoc).entity)
}

// Search ищет активные услуги по тексту и категории.
func (r *ServiceRepository) Search(ctx context.Context, query entities.ServiceSearch) ([]*entities.Service, int64, error) {
	log := repoLog(ctx, "service", "Search")

	filter := bson.D{{Key: "isActive", Value: true}}
	if query.Text != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: query.Text}}})
	}
	if query.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: query.Category})
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "featured", Value: -1}, {Key: "rating.average", Value: -1}}).
		SetSkip(skip(query.Page, query.Limit)).
		SetLimit(int64(query.Limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, storeError(ctx, log, err, entities.ErrServiceNotFound, "searching services")
	}
	items, err := decodeAll(ctx, cur, (*serviceDoc).entity)
	if err != nil {
		return nil, 0, storeError(ctx, log, err, entities.ErrServiceNotFound, "decoding services")
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storeError(ctx, log, err, entities.ErrServiceNotFound, "counting services")
	}
	return items, total, nil
}

// Update заменяет документ услуги.
func (r *ServiceRepository) Update(ctx context.Context, service *entities.Service) (*entities.Service, error) {
	log := repoLog(ctx, "service", "Update")

	oid, err := objectID(service.ID, entities.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}
	businessID, err := objectID(service.BusinessID, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}

	service.UpdatedAt = now()
	var doc serviceDoc
	err = r.coll.FindOneAndReplace(ctx, bson.D{{Key: "_id", Value: oid}}, toServiceDoc(service, oid, businessID),
		options.FindOneAndReplace().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrServiceNotFound, "updating service")
	}
	return doc.entity(), nil
}

// Delete удаляет услугу.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	log := repoLog(ctx, "service", "Delete")

	oid, err := objectID(id, entities.ErrServiceNotFound)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return storeError(ctx, log, err, entities.ErrServiceNotFound, "deleting service")
	}
	if res.DeletedCount < 1 {
		return entities.ErrServiceNotFound
	}
	return nil
}

// CountInBusiness считает, сколько из перечисленных услуг принадлежит бизнесу.
func (r *ServiceRepository) CountInBusiness(ctx context.Context, businessID string, ids []string) (int64, error) {
	log := repoLog(ctx, "service", "CountInBusiness")

	oid, err := objectID(businessID, entities.ErrBusinessNotFound)
	if err != nil {
		return 0, nil
	}
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}},
		{Key: "businessId", Value: oid},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, storeError(ctx, log, err, entities.ErrServiceNotFound, "counting business services")
	}
	return n, nil
}
