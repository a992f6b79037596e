package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/httputil"
	"curator/internal/tasks"
)

// TaskHandler exposes the async task rows and a manual poll trigger.
type TaskHandler struct {
	taskRepo repositories.TaskRepository
	tracker  *tasks.Tracker
	logger   *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo repositories.TaskRepository, tracker *tasks.Tracker, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		tracker:  tracker,
		logger:   logger,
	}
}

// ListTasks lists task rows, optionally only the active ones
// GET /api/tasks?active=true
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Task
		err  error
	)
	if r.URL.Query().Get("active") == "true" {
		list, err = h.taskRepo.ListActive(r.Context())
	} else {
		list, err = h.taskRepo.List(r.Context())
	}
	if err != nil {
		handleError(w, err)
		return
	}
	if list == nil {
		list = []models.Task{}
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// GetTask retrieves a task by its external job id
// GET /api/tasks/{task_id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if taskID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "task ID is required")
		return
	}

	task, err := h.taskRepo.GetByTaskID(r.Context(), taskID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, task)
}

// TriggerPoll runs one poll sweep immediately
// POST /api/tasks/poll
func (h *TaskHandler) TriggerPoll(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.PollOnce(r.Context()); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "poll completed"})
}
