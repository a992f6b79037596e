package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// DocumentRepository persists documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Document, error)
	ListByFolder(ctx context.Context, folderID string) ([]models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	// UpdatePathsByClient applies parsed/vector content paths to every
	// document of one client. Chunk-completion is scoped to the owning
	// client rather than the whole table.
	UpdatePathsByClient(ctx context.Context, clientID, parsedPath, vectorPath string) error
	Delete(ctx context.Context, id string) error
	DeleteByFolder(ctx context.Context, folderID string) ([]string, error)
}
