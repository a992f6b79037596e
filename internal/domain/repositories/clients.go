package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// ClientRepository persists tenant roots.
type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	// AdjustCounts adds the deltas to the client's document and folder
	// counters.
	AdjustCounts(ctx context.Context, id string, docDelta, folderDelta int) error
	Delete(ctx context.Context, id string) error
}
