package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"curator/internal/config"
	"curator/internal/diff"
	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/domain/services"
	"curator/internal/ingest"
	"curator/internal/queue"
	"curator/internal/recommender"
	"curator/internal/storage"
)

// documentService implements the DocumentService interface.
type documentService struct {
	docRepo       repositories.DocumentRepository
	folderRepo    repositories.FolderRepository
	clientRepo    repositories.ClientRepository
	teamspaceRepo repositories.TeamspaceRepository
	recRepo       repositories.RecommendationRepository
	byteRepo      repositories.ByteRepository
	txManager     repositories.TransactionManager
	sanitizer     *ingest.Sanitizer
	store         storage.ObjectStore
	publisher     queue.EventPublisher
	remote        recommender.Client
	registrar     services.TaskRegistrar
	logger        *slog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	clientRepo repositories.ClientRepository,
	teamspaceRepo repositories.TeamspaceRepository,
	recRepo repositories.RecommendationRepository,
	byteRepo repositories.ByteRepository,
	txManager repositories.TransactionManager,
	sanitizer *ingest.Sanitizer,
	store storage.ObjectStore,
	publisher queue.EventPublisher,
	remote recommender.Client,
	registrar services.TaskRegistrar,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:       docRepo,
		folderRepo:    folderRepo,
		clientRepo:    clientRepo,
		teamspaceRepo: teamspaceRepo,
		recRepo:       recRepo,
		byteRepo:      byteRepo,
		txManager:     txManager,
		sanitizer:     sanitizer,
		store:         store,
		publisher:     publisher,
		remote:        remote,
		registrar:     registrar,
		logger:        logger,
	}
}

// UploadDocument runs the ingestion pipeline and persists the document
// at version 1.
func (s *documentService) UploadDocument(ctx context.Context, req *services.UploadDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ClientID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
		validation.Field(&req.HTML, validation.Required),
		validation.Field(&req.CreatedBy, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID); err != nil {
			return nil, err
		}
	}

	rawURL, parsedURL, err := s.ingestRevision(ctx, req.ClientID, req.HTML, 1)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ClientID:      req.ClientID,
		FolderID:      req.FolderID,
		TeamspaceID:   req.TeamspaceID,
		Name:          req.Name,
		RawURL:        rawURL,
		ParsedDocPath: parsedURL,
		VersionNumber: 1,
		CreatedBy:     req.CreatedBy,
		UpdatedBy:     req.CreatedBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		if doc.FolderID != nil {
			if err := s.folderRepo.AdjustDocumentCount(txCtx, *doc.FolderID, 1); err != nil {
				return err
			}
		}
		return s.clientRepo.AdjustCounts(txCtx, doc.ClientID, 1, 0)
	})
	if err != nil {
		return nil, err
	}

	if doc.TeamspaceID != nil {
		if err := s.teamspaceRepo.SetTrainingState(ctx, *doc.TeamspaceID, false, true); err != nil {
			s.logger.Warn("failed to flag teamspace for retraining",
				"teamspace_id", *doc.TeamspaceID, "error", err)
		}
	}

	s.afterRevision(ctx, doc)

	s.logger.Info("document uploaded",
		"id", doc.ID, "client_id", doc.ClientID, "name", doc.Name)

	return doc, nil
}

// ingestRevision sanitizes the HTML and stores both the raw revision
// and its extracted plain text, returning their URLs.
func (s *documentService) ingestRevision(ctx context.Context, clientID, rawHTML string, version int) (rawURL, parsedURL string, err error) {
	clean := s.sanitizer.Sanitize(rawHTML)
	if strings.TrimSpace(clean) == "" {
		return "", "", fmt.Errorf("%w: document body is empty after sanitization", domain.ErrValidation)
	}

	revID := uuid.NewString()
	rawKey := fmt.Sprintf("raw/%s/%s-v%d.html", clientID, revID, version)
	rawURL, err = s.store.Put(ctx, rawKey, strings.NewReader(clean), int64(len(clean)), "text/html")
	if err != nil {
		return "", "", fmt.Errorf("store raw document: %w", err)
	}

	text, err := ingest.ExtractText(clean)
	if err != nil {
		return "", "", err
	}
	parsedKey := fmt.Sprintf("parsed/%s/%s-v%d.txt", clientID, revID, version)
	parsedURL, err = s.store.Put(ctx, parsedKey, strings.NewReader(text), int64(len(text)), "text/plain")
	if err != nil {
		return "", "", fmt.Errorf("store parsed text: %w", err)
	}

	return rawURL, parsedURL, nil
}

// afterRevision publishes the uploaded event and submits the chunking
// job. Neither failure blocks the upload itself.
func (s *documentService) afterRevision(ctx context.Context, doc *models.Document) {
	event := queue.DocumentUploaded{
		DocumentID:    doc.ID,
		ClientID:      doc.ClientID,
		RawURL:        doc.RawURL,
		VersionNumber: doc.VersionNumber,
		UploadedBy:    doc.UpdatedBy,
		UploadedAt:    time.Now().UTC(),
	}
	if err := s.publisher.PublishDocumentUploaded(ctx, event); err != nil {
		s.logger.Error("failed to publish document-uploaded event",
			"document_id", doc.ID, "error", err)
	}

	jobID, err := s.remote.SubmitChunking(ctx, []recommender.DocumentRef{
		{DocumentID: doc.ID, RawURL: doc.RawURL},
	})
	if err != nil {
		s.logger.Error("chunking dispatch failed",
			"document_id", doc.ID, "error", err)
		return
	}

	task := &models.Task{
		TaskID:   jobID,
		TaskName: models.TaskNameSplitChunks,
		DocID:    &doc.ID,
		ClientID: &doc.ClientID,
	}
	if err := s.registrar.Register(ctx, task); err != nil {
		s.logger.Error("task registration failed",
			"document_id", doc.ID, "job_id", jobID, "error", err)
	}
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

func (s *documentService) ListDocuments(ctx context.Context, req *services.ListDocumentsRequest) ([]models.Document, error) {
	if req.FolderID != nil && *req.FolderID != "" {
		return s.docRepo.ListByFolder(ctx, *req.FolderID)
	}
	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id or folder_id is required", domain.ErrValidation)
	}
	return s.docRepo.ListByClient(ctx, req.ClientID)
}

// UpdateDocument applies metadata changes. A new HTML body re-runs the
// ingestion pipeline and bumps the version number.
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if req.UpdatedBy == "" {
		return nil, fmt.Errorf("%w: updated_by is required", domain.ErrValidation)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		doc.Name = *req.Name
	}
	if req.FolderID != nil {
		if *req.FolderID == "" {
			doc.FolderID = nil
		} else {
			if _, err := s.folderRepo.GetByID(ctx, *req.FolderID); err != nil {
				return nil, err
			}
			doc.FolderID = req.FolderID
		}
	}

	revised := req.HTML != nil && *req.HTML != ""
	if revised {
		rawURL, parsedURL, err := s.ingestRevision(ctx, doc.ClientID, *req.HTML, doc.VersionNumber+1)
		if err != nil {
			return nil, err
		}
		doc.RawURL = rawURL
		doc.ParsedDocPath = parsedURL
		doc.VersionNumber++
		doc.ReTrainingRequired = true
	}
	doc.UpdatedBy = req.UpdatedBy
	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if revised {
		if doc.TeamspaceID != nil {
			if err := s.teamspaceRepo.SetTrainingState(ctx, *doc.TeamspaceID, false, true); err != nil {
				s.logger.Warn("failed to flag teamspace for retraining",
					"teamspace_id", *doc.TeamspaceID, "error", err)
			}
		}
		s.afterRevision(ctx, doc)
	}

	return doc, nil
}

// DeleteDocument removes the document and its recommendations in one
// transaction, reconciling byte and tenancy counters.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		byteIDs, err := s.recRepo.DeleteByDocument(txCtx, id)
		if err != nil {
			return err
		}
		for _, byteID := range byteIDs {
			if err := s.byteRepo.DecrementRecommendations(txCtx, byteID); err != nil {
				return err
			}
		}
		if err := s.docRepo.Delete(txCtx, id); err != nil {
			return err
		}
		if doc.FolderID != nil {
			if err := s.folderRepo.AdjustDocumentCount(txCtx, *doc.FolderID, -1); err != nil {
				return err
			}
		}
		return s.clientRepo.AdjustCounts(txCtx, doc.ClientID, -1, 0)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "client_id", doc.ClientID)
	return nil
}

// DiffRevisions compares two HTML revisions of the document.
func (s *documentService) DiffRevisions(ctx context.Context, documentID, oldHTML, newHTML string) ([]diff.Record, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	records, err := diff.Compare(oldHTML, newHTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return records, nil
}

// ApplyChunkPaths stores a completed chunking job's paths on the owning
// client's documents.
func (s *documentService) ApplyChunkPaths(ctx context.Context, clientID string, paths recommender.ChunkPaths) error {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return err
	}
	return s.docRepo.UpdatePathsByClient(ctx, clientID, paths.ParsedDocPath, paths.VectorDBPath)
}
