package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"curator/internal/config"
	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
)

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo repositories.ClientRepository
	logger     *slog.Logger
}

// NewClientService creates a new client service.
func NewClientService(clientRepo repositories.ClientRepository, logger *slog.Logger) services.ClientService {
	return &clientService{clientRepo: clientRepo, logger: logger}
}

func (s *clientService) CreateClient(ctx context.Context, req *services.CreateClientRequest) (*models.Client, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	c := &models.Client{
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("client created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req *services.UpdateClientRequest) (*models.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		c.Name = *req.Name
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}
