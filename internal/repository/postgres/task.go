package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaskRepository implements the TaskRepository interface
type PostgresTaskRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(config *RepositoryConfig) repositories.TaskRepository {
	return &PostgresTaskRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const taskColumns = `id, task_id, task_name, task_status, data_id, byte_id, doc_id, client_id, created_at, updated_at`

// Create inserts a new task row
func (r *PostgresTaskRepository) Create(ctx context.Context, t *models.Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (task_id, task_name, task_status, data_id, byte_id, doc_id, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		t.TaskID,
		t.TaskName,
		t.TaskStatus,
		t.DataID,
		t.ByteID,
		t.DocID,
		t.ClientID,
		t.CreatedAt,
		t.UpdatedAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// GetByTaskID retrieves a task by its external job id
func (r *PostgresTaskRepository) GetByTaskID(ctx context.Context, taskID string) (*models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE task_id = $1
	`, taskColumns, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	t, err := scanTask(executor.QueryRow(ctx, query, taskID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

// ListActive returns tasks in PENDING or IN_PROGRESS, oldest first
func (r *PostgresTaskRepository) ListActive(ctx context.Context) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE task_status IN ($1, $2)
		ORDER BY created_at ASC
	`, taskColumns, r.tables.Tasks)

	return r.list(ctx, query, models.TaskPending, models.TaskInProgress)
}

// List returns all tasks, newest first
func (r *PostgresTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
	`, taskColumns, r.tables.Tasks)

	return r.list(ctx, query)
}

func (r *PostgresTaskRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	// Return empty slice instead of nil
	if tasks == nil {
		tasks = []models.Task{}
	}

	return tasks, nil
}

// TransitionStatus moves a task between statuses with a compare-and-set
// update. Returns false when the row was not in the expected source
// status, which lets concurrent pollers detect a lost race instead of
// double-applying side effects.
func (r *PostgresTaskRepository) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET task_status = $1, updated_at = NOW()
		WHERE id = $2 AND task_status = $3
	`, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("transition task status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.TaskID,
		&t.TaskName,
		&t.TaskStatus,
		&t.DataID,
		&t.ByteID,
		&t.DocID,
		&t.ClientID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
