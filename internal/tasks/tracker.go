package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/recommender"
)

// RecommendationSink receives the entries of a completed prediction
// job, correlated back to the byte that requested them.
type RecommendationSink interface {
	SaveRecommendations(ctx context.Context, byteID string, entries []recommender.ResultEntry) error
}

// ChunkApplier receives the storage paths of a completed chunking job,
// scoped to the client that owns the chunked documents.
type ChunkApplier interface {
	ApplyChunkPaths(ctx context.Context, clientID string, paths recommender.ChunkPaths) error
}

// Tracker registers external jobs and drives their local status rows by
// polling the remote service. Completion side effects run at most once:
// a poller must win the guarded transition to COMPLETED before applying
// them, so overlapping pollers cannot double-apply.
type Tracker struct {
	registry *Registry
	tasks    repositories.TaskRepository
	remote   recommender.Client
	recs     RecommendationSink
	chunks   ChunkApplier
	logger   *slog.Logger
}

// NewTracker wires a tracker. Completion sinks are attached with Bind
// after the services that implement them exist; the services in turn
// register their jobs through the tracker.
func NewTracker(
	registry *Registry,
	tasks repositories.TaskRepository,
	remote recommender.Client,
	logger *slog.Logger,
) *Tracker {
	return &Tracker{
		registry: registry,
		tasks:    tasks,
		remote:   remote,
		logger:   logger,
	}
}

// Bind attaches the completion sinks. Must be called before the first
// poll.
func (t *Tracker) Bind(recs RecommendationSink, chunks ChunkApplier) {
	t.recs = recs
	t.chunks = chunks
}

// Register records a new PENDING task for a remote job id. The kind
// must exist in the registry.
func (t *Tracker) Register(ctx context.Context, task *models.Task) error {
	if _, err := t.registry.GetKind(task.TaskName); err != nil {
		return err
	}
	task.TaskStatus = models.TaskPending
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	return t.tasks.Create(ctx, task)
}

// PollOnce visits every active task and advances its status from the
// remote service's view of the job. Individual task failures are logged
// and do not stop the sweep.
func (t *Tracker) PollOnce(ctx context.Context) error {
	active, err := t.tasks.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active tasks: %w", err)
	}

	for i := range active {
		task := &active[i]
		if err := t.pollTask(ctx, task); err != nil {
			t.logger.Error("task poll failed",
				"task_id", task.TaskID,
				"task_name", task.TaskName,
				"error", err)
		}
	}

	return nil
}

func (t *Tracker) pollTask(ctx context.Context, task *models.Task) error {
	result, err := t.remote.JobStatus(ctx, task.TaskID)
	if err != nil {
		return fmt.Errorf("job status: %w", err)
	}

	switch result.Status {
	case recommender.StatusPending:
		return nil

	case recommender.StatusInProgress:
		if task.TaskStatus == models.TaskPending {
			if _, err := t.tasks.TransitionStatus(ctx, task.ID, models.TaskPending, models.TaskInProgress); err != nil {
				return fmt.Errorf("transition to in_progress: %w", err)
			}
		}
		return nil

	case recommender.StatusCompleted:
		moved, err := t.tasks.TransitionStatus(ctx, task.ID, task.TaskStatus, models.TaskCompleted)
		if err != nil {
			return fmt.Errorf("transition to completed: %w", err)
		}
		if !moved {
			// Another poller already claimed completion.
			return nil
		}
		if err := t.applyCompletion(ctx, task, result); err != nil {
			if _, ferr := t.tasks.TransitionStatus(ctx, task.ID, models.TaskCompleted, models.TaskFailed); ferr != nil {
				t.logger.Error("failed to mark task failed",
					"task_id", task.TaskID, "error", ferr)
			}
			return fmt.Errorf("apply completion: %w", err)
		}
		t.logger.Info("task completed",
			"task_id", task.TaskID, "task_name", task.TaskName)
		return nil

	case recommender.StatusFailed:
		if _, err := t.tasks.TransitionStatus(ctx, task.ID, task.TaskStatus, models.TaskFailed); err != nil {
			return fmt.Errorf("transition to failed: %w", err)
		}
		t.logger.Warn("remote job failed",
			"task_id", task.TaskID, "task_name", task.TaskName)
		return nil

	default:
		return fmt.Errorf("unknown remote status %q", result.Status)
	}
}

func (t *Tracker) applyCompletion(ctx context.Context, task *models.Task, result *recommender.JobResult) error {
	switch task.TaskName {
	case models.TaskNameRecommendBytes:
		if task.ByteID == nil {
			return fmt.Errorf("recommend task %s has no byte id", task.TaskID)
		}
		return t.recs.SaveRecommendations(ctx, *task.ByteID, result.Entries)

	case models.TaskNameSplitChunks:
		if task.ClientID == nil {
			return fmt.Errorf("chunk task %s has no client id", task.TaskID)
		}
		if result.Paths == nil {
			return fmt.Errorf("chunk task %s completed without paths", task.TaskID)
		}
		return t.chunks.ApplyChunkPaths(ctx, *task.ClientID, *result.Paths)

	default:
		return fmt.Errorf("no completion handler for task kind %q", task.TaskName)
	}
}

// Run polls on a fixed interval until the context is cancelled.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.PollOnce(ctx); err != nil {
				t.logger.Error("task poll sweep failed", "error", err)
			}
		}
	}
}
