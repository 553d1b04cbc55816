// Package mongo содержит хранилище маркетплейса на MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/pkg/logger"
)

// Имена коллекций.
const (
	PetsCollection       = "pets"
	BusinessesCollection = "businesses"
	ServicesCollection   = "services"
	WorkersCollection    = "workers"
)

const (
	earthRadiusKm = 6378.1
	metersInKm    = 1000
)

func repoLog(ctx context.Context, repo, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", repo), zap.String("method", method))
}

// objectID разбирает идентификатор. Некорректный идентификатор не найден.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// objectIDs разбирает список идентификаторов, пропуская некорректные.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexes(ids []primitive.ObjectID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// storeError переводит ошибку драйвера в ошибку домена.
func storeError(ctx context.Context, log *logger.Logger, err error, notFound error, op string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		log.Debug(ctx, "document not found")
		return notFound
	case mongo.IsDuplicateKeyError(err):
		log.Debug(ctx, "duplicate key", zap.Error(err))
		return fmt.Errorf("%w: %s", entities.ErrConflict, op)
	default:
		log.Error(ctx, "error "+op, zap.Error(err))
		return fmt.Errorf("error %s: %w", op, err)
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// geoPoint точка GeoJSON.
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func toGeoPoint(p entities.GeoPoint) geoPoint {
	return geoPoint{Type: "Point", Coordinates: []float64{p.Longitude, p.Latitude}}
}

func (g geoPoint) entity() entities.GeoPoint {
	if len(g.Coordinates) != 2 {
		return entities.GeoPoint{}
	}
	return entities.GeoPoint{Longitude: g.Coordinates[0], Latitude: g.Coordinates[1]}
}

// nearFilter сортирует по расстоянию, работает только в Find.
func nearFilter(p entities.GeoPoint, radiusKm float64) bson.D {
	return bson.D{{Key: "$near", Value: bson.D{
		{Key: "$geometry", Value: toGeoPoint(p)},
		{Key: "$maxDistance", Value: radiusKm * metersInKm},
	}}}
}

// withinFilter отбирает точки в круге, годится для подсчета.
func withinFilter(p entities.GeoPoint, radiusKm float64) bson.D {
	return bson.D{{Key: "$geoWithin", Value: bson.D{
		{Key: "$centerSphere", Value: bson.A{bson.A{p.Longitude, p.Latitude}, radiusKm / earthRadiusKm}},
	}}}
}

func decodeAll[D any, E any](ctx context.Context, cur *mongo.Cursor, convert func(*D) *E) ([]*E, error) {
	defer cur.Close(ctx)

	out := make([]*E, 0)
	for cur.Next(ctx) {
		var doc D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		out = append(out, convert(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cursor: %w", err)
	}
	return out, nil
}

func skip(page, limit int) int64 {
	return int64((page - 1) * limit)
}
