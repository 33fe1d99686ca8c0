package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
)

type mongoEmailTemplateStore struct {
	coll *mongo.Collection
}

// NewEmailTemplateStore returns an EmailTemplateStore over the email_templates collection.
func NewEmailTemplateStore(database *mongo.Database) EmailTemplateStore {
	return &mongoEmailTemplateStore{coll: database.Collection(db.EmailTemplatesCollection)}
}

func (s *mongoEmailTemplateStore) Find(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	var tpl models.EmailTemplate
	err := s.coll.FindOne(ctx, bson.M{"template_id": templateID, "locale": locale}).Decode(&tpl)
	if err != nil {
		return nil, mapError(err, "find email template "+templateID)
	}
	return &tpl, nil
}

// Save upserts the template keyed by (template_id, locale).
func (s *mongoEmailTemplateStore) Save(ctx context.Context, tpl *models.EmailTemplate) error {
	filter := bson.M{"template_id": tpl.TemplateID, "locale": tpl.Locale}
	update := bson.M{"$set": bson.M{
		"template_id": tpl.TemplateID,
		"locale":      tpl.Locale,
		"subject":     tpl.Subject,
		"body":        tpl.Body,
	}}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return mapError(err, "save email template")
}
