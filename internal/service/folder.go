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

// folderService implements the FolderService interface.
type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	clientRepo repositories.ClientRepository
	recRepo    repositories.RecommendationRepository
	byteRepo   repositories.ByteRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	clientRepo repositories.ClientRepository,
	recRepo repositories.RecommendationRepository,
	byteRepo repositories.ByteRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		clientRepo: clientRepo,
		recRepo:    recRepo,
		byteRepo:   byteRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ClientID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	f := &models.Folder{
		ClientID:    req.ClientID,
		TeamspaceID: req.TeamspaceID,
		Name:        req.Name,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Create(txCtx, f); err != nil {
			return err
		}
		return s.clientRepo.AdjustCounts(txCtx, f.ClientID, 0, 1)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "id", f.ID, "client_id", f.ClientID, "name", f.Name)
	return f, nil
}

func (s *folderService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

func (s *folderService) ListFolders(ctx context.Context, clientID string) ([]models.Folder, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", domain.ErrValidation)
	}
	return s.folderRepo.ListByClient(ctx, clientID)
}

func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	f, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		f.Name = *req.Name
	}
	if req.IsTrained != nil {
		f.IsTrained = *req.IsTrained
	}
	if req.ReTrainingRequired != nil {
		f.ReTrainingRequired = *req.ReTrainingRequired
	}

	if err := s.folderRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFolder cascades folder, documents and their recommendations in
// one transaction, reconciling byte and client counters.
func (s *folderService) DeleteFolder(ctx context.Context, id string) error {
	f, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		docIDs, err := s.docRepo.DeleteByFolder(txCtx, id)
		if err != nil {
			return err
		}
		for _, docID := range docIDs {
			byteIDs, err := s.recRepo.DeleteByDocument(txCtx, docID)
			if err != nil {
				return err
			}
			for _, byteID := range byteIDs {
				if err := s.byteRepo.DecrementRecommendations(txCtx, byteID); err != nil {
					return err
				}
			}
		}
		if err := s.folderRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.clientRepo.AdjustCounts(txCtx, f.ClientID, -len(docIDs), -1)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "client_id", f.ClientID)
	return nil
}
