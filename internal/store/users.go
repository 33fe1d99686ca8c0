package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
)

type mongoUserStore struct {
	coll *mongo.Collection
}

// NewUserStore returns a UserStore over the users collection.
func NewUserStore(database *mongo.Database) UserStore {
	return &mongoUserStore{coll: database.Collection(db.UsersCollection)}
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := db.Try(func() error {
		return s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	})
	if err != nil {
		return nil, mapError(err, "find user "+id.Hex())
	}
	return &user, nil
}

func (s *mongoUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	err := db.Try(func() error {
		cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		users = users[:0]
		return cursor.All(ctx, &users)
	})
	if err != nil {
		return nil, mapError(err, "find users")
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *mongoUserStore) UpdateAgentRating(ctx context.Context, agentID primitive.ObjectID, agg models.RatingAggregate) error {
	update := bson.M{"$set": bson.M{
		"rating":        agg.Average,
		"total_ratings": agg.Count,
		"updated_at":    time.Now().UTC(),
	}}
	var res *mongo.UpdateResult
	err := db.Try(func() error {
		var err error
		res, err = s.coll.UpdateOne(ctx, bson.M{"_id": agentID, "role": models.RoleAgent}, update)
		return err
	})
	if err != nil {
		return mapError(err, "update agent rating")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update agent rating %s: %w", agentID.Hex(), ErrNotFound)
	}
	return nil
}

func (s *mongoUserStore) AddUnlockedAgent(ctx context.Context, clientID, agentID primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": clientID},
		bson.M{"$addToSet": bson.M{"unlocked_agents": agentID}},
	)
	if err != nil {
		return mapError(err, "unlock agent")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("unlock agent for %s: %w", clientID.Hex(), ErrNotFound)
	}
	return nil
}
