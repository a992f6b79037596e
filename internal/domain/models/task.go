package models

import (
	"time"
)

// Task statuses. Rows are append-then-mutate: created PENDING,
// transitioned through IN_PROGRESS to COMPLETED (or FAILED when the
// remote job dies), never deleted.
const (
	TaskPending    = "PENDING"
	TaskInProgress = "IN_PROGRESS"
	TaskCompleted  = "COMPLETED"
	TaskFailed     = "FAILED"
)

// Well-known task kinds. TaskName selects the side effect applied when
// the remote job completes; the bindings live in the tasks registry.
const (
	TaskNameSplitChunks    = "split data into chunks"
	TaskNameRecommendBytes = "recommend bytes"
)

// Task is a handle to one external asynchronous job. TaskID is the
// opaque identifier issued by the external service; collisions are a
// caller responsibility.
type Task struct {
	ID         string    `json:"id" db:"id"`
	TaskID     string    `json:"task_id" db:"task_id"`
	TaskName   string    `json:"task_name" db:"task_name"`
	TaskStatus string    `json:"task_status" db:"task_status"`
	DataID     *string   `json:"data_id,omitempty" db:"data_id"`
	ByteID     *string   `json:"byte_id,omitempty" db:"byte_id"`
	DocID      *string   `json:"doc_id,omitempty" db:"doc_id"`
	ClientID   *string   `json:"client_id,omitempty" db:"client_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the poller should still visit this task.
func (t *Task) Active() bool {
	return t.TaskStatus == TaskPending || t.TaskStatus == TaskInProgress
}
