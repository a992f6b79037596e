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

// PostgresTeamspaceRepository implements the TeamspaceRepository interface
type PostgresTeamspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTeamspaceRepository creates a new teamspace repository
func NewTeamspaceRepository(config *RepositoryConfig) repositories.TeamspaceRepository {
	return &PostgresTeamspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const teamspaceColumns = `id, client_id, name, is_trained, re_training_required, created_at, updated_at`

// Create inserts a new teamspace
func (r *PostgresTeamspaceRepository) Create(ctx context.Context, ts *models.Teamspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (client_id, name, is_trained, re_training_required, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Teamspaces)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		ts.ClientID,
		ts.Name,
		ts.IsTrained,
		ts.ReTrainingRequired,
		ts.CreatedAt,
		ts.UpdatedAt,
	).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("teamspace '%s' already exists for this client: %w", ts.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create teamspace: %w", err)
	}

	return nil
}

// GetByID retrieves a teamspace by ID
func (r *PostgresTeamspaceRepository) GetByID(ctx context.Context, id string) (*models.Teamspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, teamspaceColumns, r.tables.Teamspaces)

	executor := GetExecutor(ctx, r.pool)
	ts, err := scanTeamspace(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("teamspace %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get teamspace: %w", err)
	}

	return ts, nil
}

// ListByClient lists a client's teamspaces by name
func (r *PostgresTeamspaceRepository) ListByClient(ctx context.Context, clientID string) ([]models.Teamspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE client_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, teamspaceColumns, r.tables.Teamspaces)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list teamspaces: %w", err)
	}
	defer rows.Close()

	var teamspaces []models.Teamspace
	for rows.Next() {
		ts, err := scanTeamspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teamspace: %w", err)
		}
		teamspaces = append(teamspaces, *ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teamspaces: %w", err)
	}

	// Return empty slice instead of nil
	if teamspaces == nil {
		teamspaces = []models.Teamspace{}
	}

	return teamspaces, nil
}

// Update updates a teamspace's mutable fields
func (r *PostgresTeamspaceRepository) Update(ctx context.Context, ts *models.Teamspace) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, is_trained = $2, re_training_required = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`, r.tables.Teamspaces)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		ts.Name,
		ts.IsTrained,
		ts.ReTrainingRequired,
		ts.ID,
	)
	if err != nil {
		return fmt.Errorf("update teamspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("teamspace %s: %w", ts.ID, domain.ErrNotFound)
	}

	return nil
}

// SetTrainingState flips the trained/retraining flags
func (r *PostgresTeamspaceRepository) SetTrainingState(ctx context.Context, id string, isTrained, reTrainingRequired bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_trained = $1, re_training_required = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`, r.tables.Teamspaces)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, isTrained, reTrainingRequired, id)
	if err != nil {
		return fmt.Errorf("set teamspace training state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("teamspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete soft-deletes a teamspace
func (r *PostgresTeamspaceRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Teamspaces)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete teamspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("teamspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanTeamspace(row rowScanner) (*models.Teamspace, error) {
	var ts models.Teamspace
	err := row.Scan(
		&ts.ID,
		&ts.ClientID,
		&ts.Name,
		&ts.IsTrained,
		&ts.ReTrainingRequired,
		&ts.CreatedAt,
		&ts.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
