package services

import (
	"context"

	"curator/internal/domain/models"
)

// ClientService handles client (tenant) business logic.
type ClientService interface {
	// CreateClient creates a tenant.
	CreateClient(ctx context.Context, req *CreateClientRequest) (*models.Client, error)

	// GetClient retrieves a client by id.
	GetClient(ctx context.Context, id string) (*models.Client, error)

	// ListClients lists all clients.
	ListClients(ctx context.Context) ([]models.Client, error)

	// UpdateClient renames a client.
	UpdateClient(ctx context.Context, id string, req *UpdateClientRequest) (*models.Client, error)

	// DeleteClient soft-deletes a client.
	DeleteClient(ctx context.Context, id string) error
}

// CreateClientRequest represents a client creation request.
type CreateClientRequest struct {
	Name string `json:"name"`
}

// UpdateClientRequest represents a client update request.
type UpdateClientRequest struct {
	Name *string `json:"name,omitempty"`
}
