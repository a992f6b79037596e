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

// teamspaceService implements the TeamspaceService interface.
type teamspaceService struct {
	teamspaceRepo repositories.TeamspaceRepository
	clientRepo    repositories.ClientRepository
	logger        *slog.Logger
}

// NewTeamspaceService creates a new teamspace service.
func NewTeamspaceService(
	teamspaceRepo repositories.TeamspaceRepository,
	clientRepo repositories.ClientRepository,
	logger *slog.Logger,
) services.TeamspaceService {
	return &teamspaceService{
		teamspaceRepo: teamspaceRepo,
		clientRepo:    clientRepo,
		logger:        logger,
	}
}

func (s *teamspaceService) CreateTeamspace(ctx context.Context, req *services.CreateTeamspaceRequest) (*models.Teamspace, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ClientID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	ts := &models.Teamspace{
		ClientID:  req.ClientID,
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.teamspaceRepo.Create(ctx, ts); err != nil {
		return nil, err
	}

	s.logger.Info("teamspace created", "id", ts.ID, "client_id", ts.ClientID, "name", ts.Name)
	return ts, nil
}

func (s *teamspaceService) GetTeamspace(ctx context.Context, id string) (*models.Teamspace, error) {
	return s.teamspaceRepo.GetByID(ctx, id)
}

func (s *teamspaceService) ListTeamspaces(ctx context.Context, clientID string) ([]models.Teamspace, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", domain.ErrValidation)
	}
	return s.teamspaceRepo.ListByClient(ctx, clientID)
}

func (s *teamspaceService) UpdateTeamspace(ctx context.Context, id string, req *services.UpdateTeamspaceRequest) (*models.Teamspace, error) {
	ts, err := s.teamspaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		ts.Name = *req.Name
	}
	if req.IsTrained != nil {
		ts.IsTrained = *req.IsTrained
		if *req.IsTrained {
			ts.ReTrainingRequired = false
		}
	}

	if err := s.teamspaceRepo.Update(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// MarkCorpusChanged flags the teamspace for retraining.
func (s *teamspaceService) MarkCorpusChanged(ctx context.Context, id string) error {
	if _, err := s.teamspaceRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.teamspaceRepo.SetTrainingState(ctx, id, false, true)
}

func (s *teamspaceService) DeleteTeamspace(ctx context.Context, id string) error {
	if _, err := s.teamspaceRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.teamspaceRepo.Delete(ctx, id)
}
