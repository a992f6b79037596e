package services

import (
	"context"

	"curator/internal/domain/models"
)

// TeamspaceService handles teamspace business logic.
type TeamspaceService interface {
	// CreateTeamspace creates a teamspace for a client.
	CreateTeamspace(ctx context.Context, req *CreateTeamspaceRequest) (*models.Teamspace, error)

	// GetTeamspace retrieves a teamspace by id.
	GetTeamspace(ctx context.Context, id string) (*models.Teamspace, error)

	// ListTeamspaces lists a client's teamspaces.
	ListTeamspaces(ctx context.Context, clientID string) ([]models.Teamspace, error)

	// UpdateTeamspace renames a teamspace. Corpus-affecting updates mark
	// it as requiring retraining.
	UpdateTeamspace(ctx context.Context, id string, req *UpdateTeamspaceRequest) (*models.Teamspace, error)

	// MarkCorpusChanged flags the teamspace for retraining after its
	// document set changes.
	MarkCorpusChanged(ctx context.Context, id string) error

	// DeleteTeamspace removes a teamspace.
	DeleteTeamspace(ctx context.Context, id string) error
}

// CreateTeamspaceRequest represents a teamspace creation request.
type CreateTeamspaceRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// UpdateTeamspaceRequest represents a teamspace update request.
type UpdateTeamspaceRequest struct {
	Name      *string `json:"name,omitempty"`
	IsTrained *bool   `json:"is_trained,omitempty"`
}
