package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
)

type mongoContactRequestStore struct {
	coll *mongo.Collection
}

// NewContactRequestStore returns a ContactRequestStore over the contact_requests collection.
func NewContactRequestStore(database *mongo.Database) ContactRequestStore {
	return &mongoContactRequestStore{coll: database.Collection(db.ContactRequestsCollection)}
}

func (s *mongoContactRequestStore) Insert(ctx context.Context, req *models.ContactRequest) error {
	now := time.Now().UTC()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.Status == "" {
		req.Status = models.ContactPending
	}
	if !req.Status.IsValid() {
		return fmt.Errorf("insert contact request: unknown status %q", req.Status)
	}
	req.CreatedAt = now
	req.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, req)
	return mapError(err, "insert contact request")
}
