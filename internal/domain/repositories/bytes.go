package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// ByteRepository persists bytes (user change requests).
type ByteRepository interface {
	Create(ctx context.Context, b *models.Byte) error
	// GetByID returns a byte that has not been soft-deleted.
	GetByID(ctx context.Context, id string) (*models.Byte, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Byte, error)
	ListByUser(ctx context.Context, userID string) ([]models.Byte, error)
	// SetStatus updates the lifecycle status label.
	SetStatus(ctx context.Context, id, status string) error
	// SetUserFeedback sets or clears the free-text feedback field.
	SetUserFeedback(ctx context.Context, id string, feedback *string) error
	// SetRecommendationState records the outstanding count and the
	// processed flag after ingestion.
	SetRecommendationState(ctx context.Context, id string, count int, processed bool) error
	// DecrementRecommendations decrements the outstanding count by one,
	// floored at zero. Decrements only when the current count is positive.
	DecrementRecommendations(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
}
