package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
)

// changeLogService implements the ChangeLogService interface.
type changeLogService struct {
	logRepo   repositories.ChangeLogRepository
	recRepo   repositories.RecommendationRepository
	byteRepo  repositories.ByteRepository
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewChangeLogService creates a new change log service.
func NewChangeLogService(
	logRepo repositories.ChangeLogRepository,
	recRepo repositories.RecommendationRepository,
	byteRepo repositories.ByteRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ChangeLogService {
	return &changeLogService{
		logRepo:   logRepo,
		recRepo:   recRepo,
		byteRepo:  byteRepo,
		docRepo:   docRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateChangeLog writes the audit row and reconciles the byte's
// recommendation state in the same transaction. A named recommendation
// must exist; an accept or reject consumes it: when it was the byte's
// last unresolved recommendation the byte flips to resolved, otherwise
// the outstanding count is decremented.
func (s *changeLogService) CreateChangeLog(ctx context.Context, req *services.CreateChangeLogRequest) (*models.ChangeLog, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.ByteID, validation.Required),
		validation.Field(&req.ChangedBy, validation.Required),
		validation.Field(&req.Changes, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.AIRecommendationStatus, validation.In(
			"", models.RecommendationAccepted, models.RecommendationRejected)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.docRepo.GetByID(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	b, err := s.byteRepo.GetByID(ctx, req.ByteID)
	if err != nil {
		return nil, err
	}
	if req.RecommendationID != nil {
		if _, err := s.recRepo.GetByID(ctx, *req.RecommendationID); err != nil {
			return nil, err
		}
	}

	section := req.Changes[0]
	entry := &models.ChangeLog{
		DocumentID:             req.DocumentID,
		ByteID:                 req.ByteID,
		RecommendationID:       req.RecommendationID,
		ChangedBy:              req.ChangedBy,
		Heading1:               section.Heading1,
		Heading2:               section.Heading2,
		Heading3:               section.Heading3,
		Heading4:               section.Heading4,
		SectionContent:         section.Content,
		AttributeID:            section.AttributeID,
		ChangeSummary:          req.ChangeSummary,
		ChangeRequestType:      req.ChangeRequestType,
		AIRecommendationStatus: req.AIRecommendationStatus,
		CreatedAt:              time.Now(),
	}

	resolution := req.AIRecommendationStatus == models.RecommendationAccepted ||
		req.AIRecommendationStatus == models.RecommendationRejected

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.logRepo.Create(txCtx, entry); err != nil {
			return err
		}
		if !resolution {
			return nil
		}

		// The decrement's UPDATE locks the byte row before the
		// remainder is counted; concurrent resolutions of one byte
		// serialize here, and the entry just written already counts
		// this recommendation as resolved.
		if err := s.byteRepo.DecrementRecommendations(txCtx, req.ByteID); err != nil {
			return err
		}
		remaining, err := s.recRepo.CountUnresolvedByByte(txCtx, req.ByteID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return s.byteRepo.SetStatus(txCtx, req.ByteID, models.ByteStatusResolved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("change log recorded",
		"id", entry.ID,
		"document_id", entry.DocumentID,
		"byte_id", b.ID,
		"status", entry.AIRecommendationStatus,
	)

	return entry, nil
}

func (s *changeLogService) ListByDocument(ctx context.Context, documentID string) ([]models.ChangeLog, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByDocument(ctx, documentID)
}

func (s *changeLogService) ListByByte(ctx context.Context, byteID string) ([]models.ChangeLog, error) {
	if _, err := s.byteRepo.GetByID(ctx, byteID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByByte(ctx, byteID)
}
