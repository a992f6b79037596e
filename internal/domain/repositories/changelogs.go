package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// ChangeLogRepository persists audit records of resolved edits.
// Entries are immutable: there is no update or delete.
type ChangeLogRepository interface {
	Create(ctx context.Context, entry *models.ChangeLog) error
	ListByDocument(ctx context.Context, docID string) ([]models.ChangeLog, error)
	ListByByte(ctx context.Context, byteID string) ([]models.ChangeLog, error)
}
