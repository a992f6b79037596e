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

// PostgresClientRepository implements the ClientRepository interface
type PostgresClientRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(config *RepositoryConfig) repositories.ClientRepository {
	return &PostgresClientRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const clientColumns = `id, name, no_of_documents, no_of_folders, created_at, updated_at`

// Create inserts a new tenant root
func (r *PostgresClientRepository) Create(ctx context.Context, c *models.Client) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, no_of_documents, no_of_folders, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Clients)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		c.Name,
		c.NoOfDocuments,
		c.NoOfFolders,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("client '%s' already exists: %w", c.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

// GetByID retrieves a client by ID
func (r *PostgresClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, clientColumns, r.tables.Clients)

	executor := GetExecutor(ctx, r.pool)
	c, err := scanClient(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	return c, nil
}

// List returns all clients by name
func (r *PostgresClientRepository) List(ctx context.Context) ([]models.Client, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`, clientColumns, r.tables.Clients)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	// Return empty slice instead of nil
	if clients == nil {
		clients = []models.Client{}
	}

	return clients, nil
}

// Update updates a client's name
func (r *PostgresClientRepository) Update(ctx context.Context, c *models.Client) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`, r.tables.Clients)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", c.ID, domain.ErrNotFound)
	}

	return nil
}

// AdjustCounts adds the deltas to the client's document and folder
// counters, floored at zero.
func (r *PostgresClientRepository) AdjustCounts(ctx context.Context, id string, docDelta, folderDelta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET no_of_documents = GREATEST(no_of_documents + $1, 0),
			no_of_folders = GREATEST(no_of_folders + $2, 0),
			updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`, r.tables.Clients)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, docDelta, folderDelta, id); err != nil {
		return fmt.Errorf("adjust client counts: %w", err)
	}

	return nil
}

// Delete soft-deletes a client
func (r *PostgresClientRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Clients)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanClient(row rowScanner) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.NoOfDocuments,
		&c.NoOfFolders,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
