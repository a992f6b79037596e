package services

import (
	"context"

	"curator/internal/domain/models"
)

// FolderService handles folder business logic.
type FolderService interface {
	// CreateFolder creates a folder under a client, optionally inside a
	// teamspace.
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder by id.
	GetFolder(ctx context.Context, id string) (*models.Folder, error)

	// ListFolders lists a client's folders.
	ListFolders(ctx context.Context, clientID string) ([]models.Folder, error)

	// UpdateFolder renames a folder or toggles its training flags.
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder removes a folder, its documents, and their
	// recommendations in one transaction, reconciling byte counters.
	DeleteFolder(ctx context.Context, id string) error
}

// CreateFolderRequest represents a folder creation request.
type CreateFolderRequest struct {
	ClientID    string  `json:"client_id"`
	TeamspaceID *string `json:"teamspace_id,omitempty"`
	Name        string  `json:"name"`
}

// UpdateFolderRequest represents a folder update request.
type UpdateFolderRequest struct {
	Name               *string `json:"name,omitempty"`
	IsTrained          *bool   `json:"is_trained,omitempty"`
	ReTrainingRequired *bool   `json:"re_training_required,omitempty"`
}
