package services

import (
	"context"

	"curator/internal/domain/models"
)

// TaskRegistrar records a handle to a freshly submitted external job so
// the background poller will track it.
type TaskRegistrar interface {
	Register(ctx context.Context, task *models.Task) error
}
