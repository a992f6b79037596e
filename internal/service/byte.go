// Package service implements the domain service interfaces on top of
// the repository layer.
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
	"curator/internal/recommender"
)

// RateLimiter caps byte submissions per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// dispatchTimeout bounds each background prediction submission.
const dispatchTimeout = 90 * time.Second

// byteService implements the ByteService interface.
type byteService struct {
	byteRepo  repositories.ByteRepository
	recRepo   repositories.RecommendationRepository
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	remote    recommender.Client
	registrar services.TaskRegistrar
	limiter   RateLimiter
	logger    *slog.Logger
}

// NewByteService creates a new byte service. limiter may be nil to
// disable submission limiting.
func NewByteService(
	byteRepo repositories.ByteRepository,
	recRepo repositories.RecommendationRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	remote recommender.Client,
	registrar services.TaskRegistrar,
	limiter RateLimiter,
	logger *slog.Logger,
) services.ByteService {
	return &byteService{
		byteRepo:  byteRepo,
		recRepo:   recRepo,
		docRepo:   docRepo,
		txManager: txManager,
		remote:    remote,
		registrar: registrar,
		limiter:   limiter,
		logger:    logger,
	}
}

// CreateByte persists a new open byte, then dispatches one prediction
// job per target teamspace in the background. The byte is returned
// immediately; dispatch failures only get logged.
func (s *byteService) CreateByte(ctx context.Context, req *services.CreateByteRequest) (*models.Byte, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.ClientID, validation.Required),
		validation.Field(&req.RequestText, validation.Required, validation.Length(1, config.MaxRequestTextLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, "bytes:create:"+req.UserID) {
		return nil, domain.ErrRateLimited
	}

	b := &models.Byte{
		UserID:      req.UserID,
		ClientID:    req.ClientID,
		DocumentID:  req.DocumentID,
		Email:       req.Email,
		RequestText: req.RequestText,
		Status:      models.ByteStatusOpen,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.byteRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("byte created",
		"id", b.ID,
		"client_id", b.ClientID,
		"user_id", b.UserID,
		"targets", len(req.TeamspaceIDs),
	)

	for _, tsID := range req.TeamspaceIDs {
		go s.dispatchPrediction(b, tsID)
	}

	return b, nil
}

// dispatchPrediction submits one prediction job and registers its task
// handle. Runs detached from the request context.
func (s *byteService) dispatchPrediction(b *models.Byte, teamspaceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	jobID, err := s.remote.SubmitPrediction(ctx, b.RequestText, teamspaceID)
	if err != nil {
		s.logger.Error("prediction dispatch failed",
			"byte_id", b.ID, "teamspace_id", teamspaceID, "error", err)
		return
	}

	task := &models.Task{
		TaskID:   jobID,
		TaskName: models.TaskNameRecommendBytes,
		ByteID:   &b.ID,
		ClientID: &b.ClientID,
		DataID:   &teamspaceID,
	}
	if err := s.registrar.Register(ctx, task); err != nil {
		s.logger.Error("task registration failed",
			"byte_id", b.ID, "job_id", jobID, "error", err)
		return
	}

	s.logger.Info("prediction dispatched",
		"byte_id", b.ID, "teamspace_id", teamspaceID, "job_id", jobID)
}

func (s *byteService) GetByte(ctx context.Context, id string) (*models.Byte, error) {
	return s.byteRepo.GetByID(ctx, id)
}

func (s *byteService) ListBytes(ctx context.Context, req *services.ListBytesRequest) ([]models.Byte, error) {
	if req.UserID != nil && *req.UserID != "" {
		return s.byteRepo.ListByUser(ctx, *req.UserID)
	}
	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id or user_id is required", domain.ErrValidation)
	}
	return s.byteRepo.ListByClient(ctx, req.ClientID)
}

// ResolveByte force-closes a byte with the given status label.
func (s *byteService) ResolveByte(ctx context.Context, id, status string) (*models.Byte, error) {
	if status == "" {
		status = models.ByteStatusResolved
	}
	if _, err := s.byteRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.byteRepo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.byteRepo.GetByID(ctx, id)
}

func (s *byteService) SetUserFeedback(ctx context.Context, id string, feedback *string) (*models.Byte, error) {
	if _, err := s.byteRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.byteRepo.SetUserFeedback(ctx, id, feedback); err != nil {
		return nil, err
	}
	return s.byteRepo.GetByID(ctx, id)
}

func (s *byteService) DeleteByte(ctx context.Context, id string) error {
	if _, err := s.byteRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.byteRepo.SoftDelete(ctx, id)
}

// SaveRecommendations validates a completed job's entries into typed
// payloads, stores them, and records the byte's outstanding count, all
// in one transaction.
func (s *byteService) SaveRecommendations(ctx context.Context, byteID string, entries []recommender.ResultEntry) error {
	b, err := s.byteRepo.GetByID(ctx, byteID)
	if err != nil {
		return err
	}

	recs := make([]models.Recommendation, 0, len(entries))
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return fmt.Errorf("%w: entry %d: %v", domain.ErrValidation, i, err)
		}
		recs = append(recs, models.Recommendation{
			ByteID:     b.ID,
			DocumentID: e.DocumentID,
			Payload: models.RecommendationPayload{
				GeneratedText:  e.GeneratedText,
				PreviousString: e.PreviousString,
				RelevanceScore: e.RelevanceScore,
				Heading1:       e.Heading1,
				Heading2:       e.Heading2,
				Heading3:       e.Heading3,
				Heading4:       e.Heading4,
				UpdationType:   e.UpdationType,
				DocumentID:     e.DocumentID,
			},
			RecommendationAction: e.UpdationType,
			CreatedAt:            time.Now(),
		})
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if len(recs) > 0 {
			if err := s.recRepo.CreateBatch(txCtx, recs); err != nil {
				return err
			}
		}
		return s.byteRepo.SetRecommendationState(txCtx, b.ID, len(recs), true)
	})
	if err != nil {
		return err
	}

	s.logger.Info("recommendations saved", "byte_id", b.ID, "count", len(recs))
	return nil
}

func validateEntry(e recommender.ResultEntry) error {
	if e.DocumentID == "" {
		return fmt.Errorf("document_id is required")
	}
	if e.GeneratedText == "" {
		return fmt.Errorf("generated_text is required")
	}
	switch e.UpdationType {
	case models.ActionNewSection, models.ActionAdd, models.ActionReplace:
		return nil
	default:
		return fmt.Errorf("unknown updation_type %q", e.UpdationType)
	}
}

// GetRecommendations lists a byte's unresolved recommendations grouped
// by document, in display form.
func (s *byteService) GetRecommendations(ctx context.Context, byteID string) ([]models.RecommendationGroup, error) {
	if _, err := s.byteRepo.GetByID(ctx, byteID); err != nil {
		return nil, err
	}

	recs, err := s.recRepo.ListUnresolvedByByte(ctx, byteID)
	if err != nil {
		return nil, err
	}

	groups := make([]models.RecommendationGroup, 0)
	index := make(map[string]int)
	for _, r := range recs {
		idx, ok := index[r.DocumentID]
		if !ok {
			name := ""
			if doc, err := s.docRepo.GetByID(ctx, r.DocumentID); err == nil {
				name = doc.Name
			} else {
				s.logger.Warn("document name lookup failed for recommendation group",
					"document_id", r.DocumentID, "byte_id", byteID, "error", err)
			}
			groups = append(groups, models.RecommendationGroup{
				DocumentID:   r.DocumentID,
				DocumentName: name,
			})
			idx = len(groups) - 1
			index[r.DocumentID] = idx
		}

		view := models.RecommendationView{
			ID:            r.ID,
			Action:        r.DisplayAction(),
			GeneratedText: r.Payload.GeneratedText,
			Heading1:      r.Payload.Heading1,
			Heading2:      r.Payload.Heading2,
			Heading3:      r.Payload.Heading3,
			Heading4:      r.Payload.Heading4,
		}
		// Zero relevance means the source span is meaningless noise.
		if r.Payload.RelevanceScore != 0 {
			view.PreviousString = r.Payload.PreviousString
		}
		groups[idx].Recommendations = append(groups[idx].Recommendations, view)
	}

	return groups, nil
}

// DeleteRecommendationsByDocument removes a document's recommendations
// and decrements each affected byte's outstanding count by its own
// share, inside one transaction.
func (s *byteService) DeleteRecommendationsByDocument(ctx context.Context, documentID string) error {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		byteIDs, err := s.recRepo.DeleteByDocument(txCtx, documentID)
		if err != nil {
			return err
		}
		for _, id := range byteIDs {
			if err := s.byteRepo.DecrementRecommendations(txCtx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
