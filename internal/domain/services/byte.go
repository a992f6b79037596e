package services

import (
	"context"

	"curator/internal/domain/models"
	"curator/internal/recommender"
)

// ByteService handles byte (change request) business logic, from
// creation through recommendation ingestion to resolution.
type ByteService interface {
	// CreateByte persists a new open byte and dispatches a prediction
	// job per target teamspace. Dispatch failures are logged, not
	// surfaced; the byte is created regardless.
	CreateByte(ctx context.Context, req *CreateByteRequest) (*models.Byte, error)

	// GetByte retrieves a byte by id.
	GetByte(ctx context.Context, id string) (*models.Byte, error)

	// ListBytes lists a client's bytes, optionally narrowed to one user.
	ListBytes(ctx context.Context, req *ListBytesRequest) ([]models.Byte, error)

	// ResolveByte force-closes a byte with the given status label.
	ResolveByte(ctx context.Context, id, status string) (*models.Byte, error)

	// SetUserFeedback records or clears free-text feedback on a byte.
	SetUserFeedback(ctx context.Context, id string, feedback *string) (*models.Byte, error)

	// DeleteByte soft-deletes a byte.
	DeleteByte(ctx context.Context, id string) error

	// SaveRecommendations ingests a completed prediction job's entries
	// for a byte and sets its outstanding recommendation count.
	SaveRecommendations(ctx context.Context, byteID string, entries []recommender.ResultEntry) error

	// GetRecommendations returns a byte's unresolved recommendations
	// grouped by document, in display form.
	GetRecommendations(ctx context.Context, byteID string) ([]models.RecommendationGroup, error)

	// DeleteRecommendationsByDocument removes every recommendation
	// tied to a document and adjusts each affected byte's outstanding
	// count, all in one transaction.
	DeleteRecommendationsByDocument(ctx context.Context, documentID string) error
}

// CreateByteRequest represents a byte creation request.
type CreateByteRequest struct {
	UserID       string   `json:"user_id"`
	ClientID     string   `json:"client_id"`
	DocumentID   *string  `json:"document_id,omitempty"`
	Email        *string  `json:"email,omitempty"`
	RequestText  string   `json:"request_text"`
	TeamspaceIDs []string `json:"teamspace_ids"` // prediction dispatch targets
}

// ListBytesRequest narrows a byte listing.
type ListBytesRequest struct {
	ClientID string  `json:"client_id"`
	UserID   *string `json:"user_id,omitempty"`
}
