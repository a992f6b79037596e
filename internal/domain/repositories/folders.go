package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// FolderRepository persists folders.
type FolderRepository interface {
	Create(ctx context.Context, f *models.Folder) error
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Folder, error)
	ListByTeamspace(ctx context.Context, teamspaceID string) ([]models.Folder, error)
	Update(ctx context.Context, f *models.Folder) error
	// AdjustDocumentCount adds delta to the folder's document counter.
	AdjustDocumentCount(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}
