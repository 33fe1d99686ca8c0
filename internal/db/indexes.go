package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the store and the index bootstrap.
const (
	UsersCollection           = "users"
	PropertiesCollection      = "properties"
	RatingsCollection         = "ratings"
	ContactRequestsCollection = "contact_requests"
	EmailTemplatesCollection  = "email_templates"
)

// tripleKeys is the (client, agent, property) key that must be unique for
// both contact requests and ratings.
var tripleKeys = bson.D{
	{Key: "client", Value: 1},
	{Key: "agent", Value: 1},
	{Key: "property", Value: 1},
}

// EnsureIndexes creates the indexes the application relies on. Creating an
// index that already exists with the same keys and options is a no-op in MongoDB.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		ContactRequestsCollection: {
			{Keys: tripleKeys, Options: options.Index().SetUnique(true).SetName("uniq_client_agent_property")},
		},
		RatingsCollection: {
			{Keys: tripleKeys, Options: options.Index().SetUnique(true).SetName("uniq_client_agent_property")},
			{Keys: bson.D{{Key: "agent", Value: 1}}, Options: options.Index().SetName("by_agent")},
		},
		PropertiesCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("active_newest")},
			{Keys: bson.D{{Key: "agent", Value: 1}}, Options: options.Index().SetName("by_agent")},
		},
		EmailTemplatesCollection: {
			{Keys: bson.D{{Key: "template_id", Value: 1}, {Key: "locale", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_template_locale")},
		},
	}

	for collection, models := range specs {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
