package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
)

type mongoPropertyStore struct {
	coll *mongo.Collection
}

// NewPropertyStore returns a PropertyStore over the properties collection.
func NewPropertyStore(database *mongo.Database) PropertyStore {
	return &mongoPropertyStore{coll: database.Collection(db.PropertiesCollection)}
}

func (s *mongoPropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := db.Try(func() error {
		return s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	})
	if err != nil {
		return nil, mapError(err, "find property "+id.Hex())
	}
	return &p, nil
}

func (s *mongoPropertyStore) FindActive(ctx context.Context, filter bson.M) ([]models.Property, error) {
	return s.find(ctx, filter)
}

func (s *mongoPropertyStore) FindActiveByAgent(ctx context.Context, agentID primitive.ObjectID) ([]models.Property, error) {
	return s.find(ctx, bson.M{"agent": agentID, "status": models.PropertyActive})
}

func (s *mongoPropertyStore) find(ctx context.Context, filter bson.M) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	properties := []models.Property{}
	err := db.Try(func() error {
		cursor, err := s.coll.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		properties = properties[:0]
		return cursor.All(ctx, &properties)
	})
	if err != nil {
		return nil, mapError(err, "find properties")
	}
	return properties, nil
}
