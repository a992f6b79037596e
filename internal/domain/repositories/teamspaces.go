package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// TeamspaceRepository persists teamspaces.
type TeamspaceRepository interface {
	Create(ctx context.Context, ts *models.Teamspace) error
	GetByID(ctx context.Context, id string) (*models.Teamspace, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Teamspace, error)
	Update(ctx context.Context, ts *models.Teamspace) error
	// SetTrainingState flips the trained/retraining flags.
	SetTrainingState(ctx context.Context, id string, isTrained, reTrainingRequired bool) error
	Delete(ctx context.Context, id string) error
}
