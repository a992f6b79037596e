package services

import (
	"context"

	"curator/internal/diff"
	"curator/internal/domain/models"
	"curator/internal/recommender"
)

// DocumentService handles document business logic, including the
// upload pipeline and revision diffing.
type DocumentService interface {
	// UploadDocument runs the ingestion pipeline: sanitize the HTML,
	// store the raw object, extract plain text, persist the document,
	// publish the uploaded event and submit a chunking job.
	UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document by id.
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// ListDocuments lists documents for a client or folder.
	ListDocuments(ctx context.Context, req *ListDocumentsRequest) ([]models.Document, error)

	// UpdateDocument updates a document. A new HTML body re-runs the
	// ingestion pipeline and bumps the version number.
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes a document and its recommendations in one
	// transaction, reconciling affected byte counters.
	DeleteDocument(ctx context.Context, id string) error

	// DiffRevisions compares two HTML revisions of a document and
	// returns the structural change records.
	DiffRevisions(ctx context.Context, documentID, oldHTML, newHTML string) ([]diff.Record, error)

	// ApplyChunkPaths stores a completed chunking job's parsed-doc and
	// vector-db paths on the owning client's documents.
	ApplyChunkPaths(ctx context.Context, clientID string, paths recommender.ChunkPaths) error
}

// UploadDocumentRequest represents a document upload.
type UploadDocumentRequest struct {
	ClientID    string  `json:"client_id"`
	FolderID    *string `json:"folder_id,omitempty"`
	TeamspaceID *string `json:"teamspace_id,omitempty"`
	Name        string  `json:"name"`
	HTML        string  `json:"html"`
	CreatedBy   string  `json:"created_by"`
}

// ListDocumentsRequest narrows a document listing. Exactly one of
// ClientID or FolderID is required.
type ListDocumentsRequest struct {
	ClientID string  `json:"client_id,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}

// UpdateDocumentRequest represents a document update request.
type UpdateDocumentRequest struct {
	Name      *string `json:"name,omitempty"`
	FolderID  *string `json:"folder_id,omitempty"`
	HTML      *string `json:"html,omitempty"`
	UpdatedBy string  `json:"updated_by"`
}
