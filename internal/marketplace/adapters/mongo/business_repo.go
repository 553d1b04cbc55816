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

type addressDoc struct {
	Street      string   `bson:"street,omitempty"`
	City        string   `bson:"city,omitempty"`
	State       string   `bson:"state,omitempty"`
	ZipCode     string   `bson:"zipCode,omitempty"`
	Country     string   `bson:"country,omitempty"`
	Coordinates geoPoint `bson:"coordinates"`
}

type businessDoc struct {
	ID             primitive.ObjectID        `bson:"_id"`
	Name           string                    `bson:"name"`
	Description    string                    `bson:"description,omitempty"`
	OwnerID        string                    `bson:"ownerUserId"`
	Type           entities.BusinessType     `bson:"businessType"`
	Logo           string                    `bson:"logo,omitempty"`
	CoverPhoto     string                    `bson:"coverPhoto,omitempty"`
	Photos         []string                  `bson:"photos"`
	Contact        entities.ContactInfo      `bson:"contactInfo"`
	Address        addressDoc                `bson:"address"`
	OperatingHours []entities.OperatingHours `bson:"operatingHours"`
	Certifications []entities.Certification  `bson:"certifications"`
	Payment        entities.PaymentAccount   `bson:"payment"`
	Pricing        entities.BusinessPricing  `bson:"pricing"`
	Settings       entities.BusinessSettings `bson:"settings"`
	Rating         ratingDoc                 `bson:"rating"`
	IsVerified     bool                      `bson:"isVerified"`
	Status         entities.BusinessStatus   `bson:"status"`
	Featured       bool                      `bson:"featured"`
	Views          int64                     `bson:"views"`
	CreatedAt      time.Time                 `bson:"createdAt"`
	UpdatedAt      time.Time                 `bson:"updatedAt"`
}

type ratingDoc struct {
	Average float64 `bson:"average"`
	Count   int     `bson:"count"`
}

func toRatingDoc(r entities.Rating) ratingDoc {
	return ratingDoc{Average: r.Average, Count: r.Count}
}

func (r ratingDoc) entity() entities.Rating {
	return entities.Rating{Average: r.Average, Count: r.Count}
}

func toBusinessDoc(b *entities.Business, id primitive.ObjectID) *businessDoc {
	return &businessDoc{
		ID:          id,
		Name:        b.Name,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		Type:        b.Type,
		Logo:        b.Logo,
		CoverPhoto:  b.CoverPhoto,
		Photos:      nonNil(b.Photos),
		Contact:     b.Contact,
		Address: addressDoc{
			Street:      b.Address.Street,
			City:        b.Address.City,
			State:       b.Address.State,
			ZipCode:     b.Address.ZipCode,
			Country:     b.Address.Country,
			Coordinates: toGeoPoint(b.Address.Coordinates),
		},
		OperatingHours: nonNil(b.OperatingHours),
		Certifications: nonNil(b.Certifications),
		Payment:        b.Payment,
		Pricing:        b.Pricing,
		Settings:       b.Settings,
		Rating:         toRatingDoc(b.Rating),
		IsVerified:     b.IsVerified,
		Status:         b.Status,
		Featured:       b.Featured,
		Views:          b.Views,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (d *businessDoc) entity() *entities.Business {
	return &entities.Business{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		Type:        d.Type,
		Logo:        d.Logo,
		CoverPhoto:  d.CoverPhoto,
		Photos:      d.Photos,
		Contact:     d.Contact,
		Address: entities.BusinessAddress{
			Street:      d.Address.Street,
			City:        d.Address.City,
			State:       d.Address.State,
			ZipCode:     d.Address.ZipCode,
			Country:     d.Address.Country,
			Coordinates: d.Address.Coordinates.entity(),
		},
		OperatingHours: d.OperatingHours,
		Certifications: d.Certifications,
		Payment:        d.Payment,
		Pricing:        d.Pricing,
		Settings:       d.Settings,
		Rating:         d.Rating.entity(),
		IsVerified:     d.IsVerified,
		Status:         d.Status,
		Featured:       d.Featured,
		Views:          d.Views,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// BusinessRepository реализует repositories.BusinessRepository.
type BusinessRepository struct {
	coll *mongo.Collection
}

// NewBusinessRepository создает хранилище профилей бизнеса.
func NewBusinessRepository(db *mongo.Database) repositories.BusinessRepository {
	return &BusinessRepository{coll: db.Collection(BusinessesCollection)}
}

// Create сохраняет бизнес. Второй бизнес того же владельца отклоняется уникальным индексом.
func (r *BusinessRepository) Create(ctx context.Context, business *entities.Business) (*entities.Business, error) {
	log := repoLog(ctx, "business", "Create")

	ts := now()
	business.CreatedAt, business.UpdatedAt = ts, ts
	doc := toBusinessDoc(business, primitive.NewObjectID())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrBusinessNotFound, "inserting business")
	}
	return doc.entity(), nil
}

// FindByID находит бизнес в любом статусе.
func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*entities.Business, error) {
	oid, err := objectID(id, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "FindByID", bson.D{{Key: "_id", Value: oid}})
}

// FindByOwner находит бизнес владельца.
func (r *BusinessRepository) FindByOwner(ctx context.Context, ownerID string) (*entities.Business, error) {
	return r.findOne(ctx, "FindByOwner", bson.D{{Key: "ownerUserId", Value: ownerID}})
}

func (r *BusinessRepository) findOne(ctx context.Context, method string, filter bson.D) (*entities.Business, error) {
	log := repoLog(ctx, "business", method)

	var doc businessDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrBusinessNotFound, "querying business")
	}
	return doc.entity(), nil
}

// Update заменяет документ бизнеса.
func (r *BusinessRepository) Update(ctx context.Context, business *entities.Business) (*entities.Business, error) {
	log := repoLog(ctx, "business", "Update")

	oid, err := objectID(business.ID, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}

	business.UpdatedAt = now()
	var doc businessDoc
	err = r.coll.FindOneAndReplace(ctx, bson.D{{Key: "_id", Value: oid}}, toBusinessDoc(business, oid),
		options.FindOneAndReplace().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrBusinessNotFound, "updating business")
	}
	return doc.entity(), nil
}

// IncrementViews атомарно увеличивает счетчик просмотров.
func (r *BusinessRepository) IncrementViews(ctx context.Context, id string) (*entities.Business, error) {
	log := repoLog(ctx, "business", "IncrementViews")

	oid, err := objectID(id, entities.ErrBusinessNotFound)
	if err != nil {
		return nil, err
	}

	var doc businessDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrBusinessNotFound, "incrementing business views")
	}
	return doc.entity(), nil
}

// Search ищет активные бизнесы. Сортировка по расстоянию использует $near,
// подсчет всегда идет через $geoWithin, так как $near не поддерживается в countDocuments.
func (r *BusinessRepository) Search(ctx context.Context, query entities.BusinessSearch) ([]*entities.Business, int64, error) {
	log := repoLog(ctx, "business", "Search")

	filter := bson.D{{Key: "status", Value: entities.BusinessActive}}
	if query.Text != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: query.Text}}})
	}
	if query.Type != "" {
		filter = append(filter, bson.E{Key: "businessType", Value: query.Type})
	}
	if query.Verified != nil {
		filter = append(filter, bson.E{Key: "isVerified", Value: *query.Verified})
	}
	if query.Featured != nil {
		filter = append(filter, bson.E{Key: "featured", Value: *query.Featured})
	}

	countFilter := filter
	findFilter := filter
	opts := options.Find().
		SetSkip(skip(query.Page, query.Limit)).
		SetLimit(int64(query.Limit))

	if query.Near != nil {
		countFilter = append(bson.D{}, filter...)
		countFilter = append(countFilter, bson.E{Key: "address.coordinates", Value: withinFilter(*query.Near, query.RadiusKm)})
		if query.SortBy == entities.SortDistance && query.Text == "" {
			findFilter = append(bson.D{}, filter...)
			findFilter = append(findFilter, bson.E{Key: "address.coordinates", Value: nearFilter(*query.Near, query.RadiusKm)})
		} else {
			findFilter = countFilter
		}
	}
	if query.Near == nil || query.SortBy != entities.SortDistance || query.Text != "" {
		opts.SetSort(businessSort(query.SortBy))
	}

	cur, err := r.coll.Find(ctx, findFilter, opts)
	if err != nil {
		return nil, 0, storeError(ctx, log, err, entities.ErrBusinessNotFound, "searching businesses")
	}
	items, err := decodeAll(ctx, cur, (*businessDoc).entity)
	if err != nil {
		return nil, 0, storeError(ctx, log, err, entities.ErrBusinessNotFound, "decoding businesses")
	}

	total, err := r.coll.CountDocuments(ctx, countFilter)
	if err != nil {
		return nil, 0, storeError(ctx, log, err, entities.ErrBusinessNotFound, "counting businesses")
	}
	return items, total, nil
}

func businessSort(by entities.SortBy) bson.D {
	switch by {
	case entities.SortRating:
		return bson.D{{Key: "rating.average", Value: -1}, {Key: "featured", Value: -1}}
	case entities.SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "featured", Value: -1}, {Key: "rating.average", Value: -1}}
	}
}

// Nearby активные бизнесы в радиусе, ближайшие первыми.
func (r *BusinessRepository) Nearby(ctx context.Context, point entities.GeoPoint, radiusKm float64, limit int) ([]*entities.Business, error) {
	log := repoLog(ctx, "business", "Nearby")

	filter := bson.D{
		{Key: "address.coordinates", Value: nearFilter(point, radiusKm)},
		{Key: "status", Value: entities.BusinessActive},
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrBusinessNotFound, "querying nearby businesses")
	}
	return decodeAll(ctx, cur, (*businessDoc).entity)
}

// Featured активные избранные бизнесы по убыванию рейтинга.
func (r *BusinessRepository) Featured(ctx context.Context, limit int) ([]*entities.Business, error) {
	log := repoLog(ctx, "business", "Featured")

	filter := bson.D{
		{Key: "status", Value: entities.BusinessActive},
		{Key: "featured", Value: true},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "rating.average", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrBusinessNotFound, "querying featured businesses")
	}
	return decodeAll(ctx, cur, (*businessDoc).entity)
}
