package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Triple identifies the (client, agent, property) combination that keys
// uniqueness for contact requests and ratings.
type Triple struct {
	ClientID   primitive.ObjectID `bson:"client"`
	AgentID    primitive.ObjectID `bson:"agent"`
	PropertyID primitive.ObjectID `bson:"property"`
}

// Filter returns the exact-match query for the triple.
func (t Triple) Filter() bson.M {
	return bson.M{
		"client":   t.ClientID,
		"agent":    t.AgentID,
		"property": t.PropertyID,
	}
}
