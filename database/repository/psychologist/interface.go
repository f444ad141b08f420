package psychologistRepo

import (
	"context"

	"psibooking/database"
	"psibooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PsychologistRepository is the authoritative catalog. FindByID returns
// (nil, nil) when the psychologist does not exist.
type PsychologistRepository interface {
	FindByID(ctx context.Context, id string) (*models.Psychologist, error)
	// FindByTheme returns active psychologists offering theme, best rated first.
	FindByTheme(ctx context.Context, theme models.Theme) ([]models.Psychologist, error)
	FindAll(ctx context.Context) ([]models.Psychologist, error)
	Save(ctx context.Context, p *models.Psychologist) error
	EnsureIndexes(ctx context.Context) error
}

type MongoPsychologistRepo struct {
	coll *mongo.Collection
}

func NewMongoPsychologistRepo() PsychologistRepository {
	return &MongoPsychologistRepo{coll: database.BookingDB().Collection("psychologists")}
}
