// File: database/repository/replica/search.go
package replicaRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"psibooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoReplicaRepo) FindByID(ctx context.Context, psychologistID string) (*models.PsychologistSearchModel, error) {
	var doc models.PsychologistSearchModel
	err := r.coll.FindOne(ctx, bson.M{"id": psychologistID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoReplicaRepo) Replace(ctx context.Context, doc *models.PsychologistSearchModel) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to index psychologist %s: %w", doc.ID, err)
	}
	return nil
}

// Search runs criteria as an aggregation so that results can be ordered by
// the number of open slots. Criteria are expected to be normalized.
func (r *mongoReplicaRepo) Search(ctx context.Context, criteria models.PsychologistSearchCriteria) ([]models.PsychologistSearchModel, int64, error) {
	match := BuildSearchFilter(criteria)

	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"availableCount": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$availability",
				"as":    "a",
				"cond":  "$$a.isAvailable",
			}}},
		}}},
		{{Key: "$sort", Value: BuildSearchSort(criteria)}},
		{{Key: "$skip", Value: int64(criteria.Page) * int64(criteria.Size)}},
		{{Key: "$limit", Value: int64(criteria.Size)}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregation query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.PsychologistSearchModel
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode psychologists: %w", err)
	}
	return docs, total, nil
}

// BuildSearchFilter translates criteria into a $match document.
func BuildSearchFilter(c models.PsychologistSearchCriteria) bson.M {
	filter := bson.M{}
	if c.IsActive {
		filter["isActive"] = true
	}
	if c.Name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(c.Name), "$options": "i"}
	}
	if len(c.Themes) > 0 {
		filter["themes"] = bson.M{"$in": c.Themes}
	}
	if c.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *c.MinRating}
	}
	if c.MinExperience != nil {
		filter["experience"] = bson.M{"$gte": *c.MinExperience}
	}
	if c.AvailableFrom != nil || c.AvailableTo != nil {
		slot := bson.M{"isAvailable": true}
		if c.AvailableFrom != nil {
			slot["startTime"] = bson.M{"$gte": *c.AvailableFrom}
		}
		if c.AvailableTo != nil {
			slot["endTime"] = bson.M{"$lte": *c.AvailableTo}
		}
		filter["availability"] = bson.M{"$elemMatch": slot}
	}
	return filter
}

// BuildSearchSort returns the $sort stage body; id breaks ties for stable paging.
func BuildSearchSort(c models.PsychologistSearchCriteria) bson.D {
	dir := -1
	if c.SortDirection == models.SortAsc {
		dir = 1
	}
	field := "rating"
	switch c.SortBy {
	case models.SortByExperience:
		field = "experience"
	case models.SortByName:
		field = "name"
	case models.SortByAvailabilityCount:
		field = "availableCount"
	}
	return bson.D{{Key: field, Value: dir}, {Key: "id", Value: 1}}
}
