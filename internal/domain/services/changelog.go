package services

import (
	"context"

	"curator/internal/domain/models"
)

// ChangeLogService records resolved edits and reconciles the owning
// byte's recommendation state in the same transaction.
type ChangeLogService interface {
	// CreateChangeLog writes one audit row. When a recommendation id is
	// given it must exist. An ACCEPTED/REJECTED status additionally
	// re-counts the byte's unresolved recommendations and either
	// resolves the byte or decrements its outstanding count.
	CreateChangeLog(ctx context.Context, req *CreateChangeLogRequest) (*models.ChangeLog, error)

	// ListByDocument returns a document's change history, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]models.ChangeLog, error)

	// ListByByte returns the change log entries produced by one byte.
	ListByByte(ctx context.Context, byteID string) ([]models.ChangeLog, error)
}

// CreateChangeLogRequest represents a change log creation request.
// Changes carries the section identities of the edit; the stored row
// uses the first element.
type CreateChangeLogRequest struct {
	DocumentID             string                 `json:"document_id"`
	ByteID                 string                 `json:"byte_id"`
	RecommendationID       *string                `json:"recommendation_id,omitempty"`
	ChangedBy              string                 `json:"changed_by"`
	Changes                []models.SectionChange `json:"changes"`
	ChangeSummary          string                 `json:"change_summary"`
	ChangeRequestType      string                 `json:"change_request_type"`
	AIRecommendationStatus string                 `json:"ai_recommendation_status"`
}
