package repositories

import (
	"context"

	"curator/internal/domain/models"
)

// TaskRepository persists external job handles. Rows are insert-only
// plus guarded status transitions; tasks are never deleted.
type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	GetByTaskID(ctx context.Context, taskID string) (*models.Task, error)
	// ListActive returns tasks in PENDING or IN_PROGRESS.
	ListActive(ctx context.Context) ([]models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	// TransitionStatus moves a task from one status to another using a
	// conditional update. It reports whether the row actually moved, so
	// concurrent pollers cannot double-apply side effects.
	TransitionStatus(ctx context.Context, id, from, to string) (bool, error)
}
