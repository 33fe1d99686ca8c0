package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/utils"
)

func setupStoreDB(t *testing.T) *mongo.Database {
	database := utils.SetupTestDB(t, "realty_store_test",
		db.UsersCollection, db.PropertiesCollection, db.RatingsCollection,
		db.ContactRequestsCollection, db.EmailTemplatesCollection)
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return database
}

func insertUser(t *testing.T, database *mongo.Database, u models.User) models.User {
	u.ID = primitive.NewObjectID()
	_, err := database.Collection(db.UsersCollection).InsertOne(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestContactRequestStore_DuplicateTriple(t *testing.T) {
	database := setupStoreDB(t)
	s := NewContactRequestStore(database)
	ctx := context.Background()

	triple := models.Triple{ClientID: primitive.NewObjectID(), AgentID: primitive.NewObjectID(), PropertyID: primitive.NewObjectID()}
	first := &models.ContactRequest{ClientID: triple.ClientID, AgentID: triple.AgentID, PropertyID: triple.PropertyID}
	require.NoError(t, s.Insert(ctx, first))
	assert.Equal(t, models.ContactPending, first.Status)

	second := &models.ContactRequest{ClientID: triple.ClientID, AgentID: triple.AgentID, PropertyID: triple.PropertyID}
	err := s.Insert(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := database.Collection(db.ContactRequestsCollection).CountDocuments(ctx, triple.Filter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestContactRequestStore_RejectsUnknownStatus(t *testing.T) {
	// Connecting is lazy and validation happens before any round trip.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())
	s := NewContactRequestStore(client.Database("unused"))

	err = s.Insert(context.Background(), &models.ContactRequest{Status: "archived"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archived")
}

func TestRatingStore_InsertAndFindByAgent(t *testing.T) {
	database := setupStoreDB(t)
	s := NewRatingStore(database)
	ctx := context.Background()
	agent := primitive.NewObjectID()

	for _, v := range []int{5, 3, 4} {
		require.NoError(t, s.Insert(ctx, &models.Rating{
			ClientID: primitive.NewObjectID(), AgentID: agent, PropertyID: primitive.NewObjectID(), Rating: v,
		}))
	}
	ratings, err := s.FindByAgent(ctx, agent)
	require.NoError(t, err)
	assert.Len(t, ratings, 3)
	assert.Equal(t, 4.0, models.Aggregate(ratings).Average)

	dup := ratings[0]
	dup.ID = primitive.NilObjectID
	assert.ErrorIs(t, s.Insert(ctx, &dup), ErrDuplicate)

	found, err := s.FindOne(ctx, ratings[0].Triple())
	require.NoError(t, err)
	assert.Equal(t, ratings[0].ID, found.ID)
	_, err = s.FindOne(ctx, models.Triple{ClientID: primitive.NewObjectID(), AgentID: agent, PropertyID: ratings[0].PropertyID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_RatingAndUnlock(t *testing.T) {
	database := setupStoreDB(t)
	s := NewUserStore(database)
	ctx := context.Background()

	agent := insertUser(t, database, models.User{Name: "Ada Agent", Role: models.RoleAgent})
	client := insertUser(t, database, models.User{Name: "Cy Client", Role: models.RoleClient})

	require.NoError(t, s.UpdateAgentRating(ctx, agent.ID, models.RatingAggregate{Average: 4.5, Count: 2}))
	got, err := s.FindByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Rating)
	assert.Equal(t, 2, got.TotalRatings)

	// Ratings are only aggregated onto agents.
	assert.ErrorIs(t, s.UpdateAgentRating(ctx, client.ID, models.RatingAggregate{Average: 1, Count: 1}), ErrNotFound)

	require.NoError(t, s.AddUnlockedAgent(ctx, client.ID, agent.ID))
	require.NoError(t, s.AddUnlockedAgent(ctx, client.ID, agent.ID))
	got, err = s.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{agent.ID}, got.UnlockedAgents)

	byID, err := s.FindByIDs(ctx, []primitive.ObjectID{agent.ID, client.ID})
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	_, err = s.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyStore_FindActiveNewestFirst(t *testing.T) {
	database := setupStoreDB(t)
	s := NewPropertyStore(database)
	ctx := context.Background()
	agent := primitive.NewObjectID()
	now := time.Now().UTC()

	docs := []any{
		models.Property{ID: primitive.NewObjectID(), Title: "old", AgentID: agent, Status: models.PropertyActive, CreatedAt: now.Add(-time.Hour)},
		models.Property{ID: primitive.NewObjectID(), Title: "new", AgentID: agent, Status: models.PropertyActive, CreatedAt: now},
		models.Property{ID: primitive.NewObjectID(), Title: "sold", AgentID: agent, Status: models.PropertySold, CreatedAt: now},
	}
	_, err := database.Collection(db.PropertiesCollection).InsertMany(ctx, docs)
	require.NoError(t, err)

	props, err := s.FindActive(ctx, bson.M{"status": models.PropertyActive})
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "new", props[0].Title)
	assert.Equal(t, "old", props[1].Title)

	byAgent, err := s.FindActiveByAgent(ctx, agent)
	require.NoError(t, err)
	assert.Len(t, byAgent, 2)
}

func TestEmailTemplateStore_SaveAndFind(t *testing.T) {
	database := setupStoreDB(t)
	s := NewEmailTemplateStore(database)
	ctx := context.Background()

	_, err := s.Find(ctx, "contact_request_operator", "en-US")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, &models.EmailTemplate{TemplateID: "contact_request_operator", Locale: "en-US", Subject: "A", Body: "B"}))
	require.NoError(t, s.Save(ctx, &models.EmailTemplate{TemplateID: "contact_request_operator", Locale: "en-US", Subject: "C", Body: "D"}))

	tpl, err := s.Find(ctx, "contact_request_operator", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "C", tpl.Subject)
}
