package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
)

type mongoRatingStore struct {
	coll *mongo.Collection
}

// NewRatingStore returns a RatingStore over the ratings collection.
func NewRatingStore(database *mongo.Database) RatingStore {
	return &mongoRatingStore{coll: database.Collection(db.RatingsCollection)}
}

func (s *mongoRatingStore) FindOne(ctx context.Context, triple models.Triple) (*models.Rating, error) {
	var r models.Rating
	if err := s.coll.FindOne(ctx, triple.Filter()).Decode(&r); err != nil {
		return nil, mapError(err, "find rating")
	}
	return &r, nil
}

func (s *mongoRatingStore) FindByAgent(ctx context.Context, agentID primitive.ObjectID) ([]models.Rating, error) {
	ratings := []models.Rating{}
	err := db.Try(func() error {
		cursor, err := s.coll.Find(ctx, bson.M{"agent": agentID})
		if err != nil {
			return err
		}
		ratings = ratings[:0]
		return cursor.All(ctx, &ratings)
	})
	if err != nil {
		return nil, mapError(err, "find ratings by agent")
	}
	return ratings, nil
}

// Insert relies on the unique (client, agent, property) index; a second
// rating for the same triple yields ErrDuplicate.
func (s *mongoRatingStore) Insert(ctx context.Context, rating *models.Rating) error {
	if rating.ID.IsZero() {
		rating.ID = primitive.NewObjectID()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, rating)
	return mapError(err, "insert rating")
}
