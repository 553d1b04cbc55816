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

type petDoc struct {
	ID                 primitive.ObjectID   `bson:"_id"`
	Name               string               `bson:"name"`
	Species            entities.Species     `bson:"species"`
	Breed              string               `bson:"breed,omitempty"`
	Age                *int                 `bson:"age,omitempty"`
	BirthDate          *time.Time           `bson:"birthDate,omitempty"`
	Gender             string               `bson:"gender"`
	Weight             *float64             `bson:"weight,omitempty"`
	Size               string               `bson:"size,omitempty"`
	Color              string               `bson:"color,omitempty"`
	Photos             []string             `bson:"photos"`
	OwnerID            string               `bson:"ownerId"`
	CoOwners           []string             `bson:"coOwners"`
	Medical            entities.MedicalInfo `bson:"medicalInfo"`
	Behavior           entities.Behavior    `bson:"behavior"`
	MicrochipID        string               `bson:"microchipId,omitempty"`
	RegistrationNumber string               `bson:"registrationNumber,omitempty"`
	Insurance          *entities.Insurance  `bson:"insurance,omitempty"`
	Status             entities.PetStatus   `bson:"status"`
	Notes              string               `bson:"notes,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt"`
}

func toPetDoc(p *entities.Pet, id primitive.ObjectID) *petDoc {
	return &petDoc{
		ID:                 id,
		Name:               p.Name,
		Species:            p.Species,
		Breed:              p.Breed,
		Age:                p.Age,
		BirthDate:          p.BirthDate,
		Gender:             p.Gender,
		Weight:             p.Weight,
		Size:               p.Size,
		Color:              p.Color,
		Photos:             nonNil(p.Photos),
		OwnerID:            p.OwnerID,
		CoOwners:           nonNil(p.CoOwners),
		Medical:            p.Medical,
		Behavior:           p.Behavior,
		MicrochipID:        p.MicrochipID,
		RegistrationNumber: p.RegistrationNumber,
		Insurance:          p.Insurance,
		Status:             p.Status,
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (d *petDoc) entity() *entities.Pet {
	return &entities.Pet{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Species:            d.Species,
		Breed:              d.Breed,
		Age:                d.Age,
		BirthDate:          d.BirthDate,
		Gender:             d.Gender,
		Weight:             d.Weight,
		Size:               d.Size,
		Color:              d.Color,
		Photos:             d.Photos,
		OwnerID:            d.OwnerID,
		CoOwners:           d.CoOwners,
		Medical:            d.Medical,
		Behavior:           d.Behavior,
		MicrochipID:        d.MicrochipID,
		RegistrationNumber: d.RegistrationNumber,
		Insurance:          d.Insurance,
		Status:             d.Status,
		Notes:              d.Notes,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// PetRepository реализует repositories.PetRepository.
type PetRepository struct {
	coll *mongo.Collection
}

// NewPetRepository создает хранилище питомцев.
func NewPetRepository(db *mongo.Database) repositories.PetRepository {
	return &PetRepository{coll: db.Collection(PetsCollection)}
}

// Create сохраняет питомца с новым идентификатором.
func (r *PetRepository) Create(ctx context.Context, pet *entities.Pet) (*entities.Pet, error) {
	log := repoLog(ctx, "pet", "Create")

	ts := now()
	pet.CreatedAt, pet.UpdatedAt = ts, ts
	doc := toPetDoc(pet, primitive.NewObjectID())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrPetNotFound, "inserting pet")
	}
	return doc.entity(), nil
}

// FindByID находит питомца.
func (r *PetRepository) FindByID(ctx context.Context, id string) (*entities.Pet, error) {
	log := repoLog(ctx, "pet", "FindByID")

	oid, err := objectID(id, entities.ErrPetNotFound)
	if err != nil {
		return nil, err
	}

	var doc petDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, storeError(ctx, log, err, entities.ErrPetNotFound, "querying pet")
	}
	return doc.entity(), nil
}

// ListAccessible питомцы во владении или совместном владении, кроме умерших.
func (r *PetRepository) ListAccessible(ctx context.Context, accountID string) ([]*entities.Pet, error) {
	log := repoLog(ctx, "pet", "ListAccessible")

	filter := bson.D{
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "ownerId", Value: accountID}},
			bson.D{{Key: "coOwners", Value: accountID}},
		}},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: entities.PetDeceased}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrPetNotFound, "listing pets")
	}
	return decodeAll(ctx, cur, (*petDoc).entity)
}

// Update заменяет документ питомца.
func (r *PetRepository) Update(ctx context.Context, pet *entities.Pet) (*entities.Pet, error) {
	log := repoLog(ctx, "pet", "Update")

	oid, err := objectID(pet.ID, entities.ErrPetNotFound)
	if err != nil {
		return nil, err
	}

	pet.UpdatedAt = now()
	var doc petDoc
	err = r.coll.FindOneAndReplace(ctx, bson.D{{Key: "_id", Value: oid}}, toPetDoc(pet, oid),
		options.FindOneAndReplace().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, storeError(ctx, log, err, entities.ErrPetNotFound, "updating pet")
	}
	return doc.entity(), nil
}

// Delete удаляет питомца физически.
func (r *PetRepository) Delete(ctx context.Context, id string) error {
	log := repoLog(ctx, "pet", "Delete")

	oid, err := objectID(id, entities.ErrPetNotFound)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return storeError(ctx, log, err, entities.ErrPetNotFound, "deleting pet")
	}
	if res.DeletedCount < 1 {
		return entities.ErrPetNotFound
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
