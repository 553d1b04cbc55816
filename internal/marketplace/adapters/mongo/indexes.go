package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"walkydoggy/pkg/logger"
)

func key(k string, v any) bson.E {
	return bson.E{Key: k, Value: v}
}

// Indexes индексы коллекций маркетплейса.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		PetsCollection: {
			{Keys: bson.D{key("ownerId", 1), key("status", 1)}},
			{Keys: bson.D{key("coOwners", 1)}},
			{Keys: bson.D{key("name", "text"), key("breed", "text")}},
		},
		BusinessesCollection: {
			{Keys: bson.D{key("address.coordinates", "2dsphere")}},
			{Keys: bson.D{key("name", "text"), key("description", "text")}},
			{Keys: bson.D{key("status", 1), key("isVerified", 1)}},
			{Keys: bson.D{key("ownerUserId", 1)}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{key("rating.average", -1), key("status", 1)}},
		},
		ServicesCollection: {
			{Keys: bson.D{key("businessId", 1), key("isActive", 1)}},
			{Keys: bson.D{key("category", 1), key("isActive", 1)}},
			{Keys: bson.D{key("pricing.baseprice", 1)}},
			{Keys: bson.D{key("name", "text"), key("description", "text")}},
		},
		WorkersCollection: {
			{Keys: bson.D{key("businessId", 1), key("isActive", 1)}},
			{Keys: bson.D{key("status.isOnline", 1), key("isActive", 1)}},
			{Keys: bson.D{key("currentLocation", "2dsphere")}},
			{Keys: bson.D{key("specializations", 1)}},
		},
	}
}

// EnsureIndexes создает недостающие индексы. Повторный вызов безопасен.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	log := logger.Log(ctx).With(zap.String("method", "EnsureIndexes"))

	for coll, models := range Indexes() {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			log.Error(ctx, "failed to create indexes", zap.String("collection", coll), zap.Error(err))
			return fmt.Errorf("error creating indexes on %s: %w", coll, err)
		}
		log.Info(ctx, "indexes ensured", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}

// DropIndexes удаляет все индексы кроме _id.
func DropIndexes(ctx context.Context, db *mongo.Database) error {
	log := logger.Log(ctx).With(zap.String("method", "DropIndexes"))

	for coll := range Indexes() {
		if _, err := db.Collection(coll).Indexes().DropAll(ctx); err != nil {
			log.Error(ctx, "failed to drop indexes", zap.String("collection", coll), zap.Error(err))
			return fmt.Errorf("error dropping indexes on %s: %w", coll, err)
		}
	}
	return nil
}
