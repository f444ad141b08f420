package psychologistRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"psibooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoPsychologistRepo) FindByID(ctx context.Context, id string) (*models.Psychologist, error) {
	var p models.Psychologist
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoPsychologistRepo) FindByTheme(ctx context.Context, theme models.Theme) ([]models.Psychologist, error) {
	filter := bson.M{"themes": theme, "isActive": true}
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoPsychologistRepo) FindAll(ctx context.Context) ([]models.Psychologist, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (r *MongoPsychologistRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Psychologist, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("psychologist query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Psychologist
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode psychologists: %w", err)
	}
	return out, nil
}

// Save replaces the catalog entry, creating it when missing.
func (r *MongoPsychologistRepo) Save(ctx context.Context, p *models.Psychologist) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save psychologist %s: %w", p.ID, err)
	}
	return nil
}

func (r *MongoPsychologistRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "themes", Value: 1}, {Key: "isActive", Value: 1}, {Key: "rating", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create psychologist indexes: %w", err)
	}
	return nil
}
