package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// RecommendationRepository persists AI-proposed edits.
type RecommendationRepository interface {
	CreateBatch(ctx context.Context, recs []models.Recommendation) error
	GetByID(ctx context.Context, id string) (*models.Recommendation, error)
	// ListUnresolvedByByte returns the byte's recommendations that have
	// no change-log row yet, ordered by creation time.
	ListUnresolvedByByte(ctx context.Context, byteID string) ([]models.Recommendation, error)
	ListByDocument(ctx context.Context, docID string) ([]models.Recommendation, error)
	// DeleteByDocument removes every recommendation for the document and
	// returns the ids of the bytes each removed row belonged to, one
	// entry per removed row.
	DeleteByDocument(ctx context.Context, docID string) ([]string, error)
	CountUnresolvedByByte(ctx context.Context, byteID string) (int, error)
}
