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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const folderColumns = `id, client_id, teamspace_id, name, no_of_documents, is_trained,
	re_training_required, created_at, updated_at`

// Create inserts a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, f *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (client_id, teamspace_id, name, no_of_documents, is_trained,
			re_training_required, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		f.ClientID,
		f.TeamspaceID,
		f.Name,
		f.NoOfDocuments,
		f.IsTrained,
		f.ReTrainingRequired,
		f.CreatedAt,
		f.UpdatedAt,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("folder '%s' already exists for this client: %w", f.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	f, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return f, nil
}

// ListByClient lists a client's folders by name
func (r *PostgresFolderRepository) ListByClient(ctx context.Context, clientID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE client_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	return r.list(ctx, query, clientID)
}

// ListByTeamspace lists a teamspace's folders by name
func (r *PostgresFolderRepository) ListByTeamspace(ctx context.Context, teamspaceID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE teamspace_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	return r.list(ctx, query, teamspaceID)
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	// Return empty slice instead of nil
	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}

// Update updates a folder's mutable fields
func (r *PostgresFolderRepository) Update(ctx context.Context, f *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET teamspace_id = $1, name = $2, is_trained = $3, re_training_required = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		f.TeamspaceID,
		f.Name,
		f.IsTrained,
		f.ReTrainingRequired,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", f.ID, domain.ErrNotFound)
	}

	return nil
}

// AdjustDocumentCount adds delta to the folder's document counter,
// floored at zero.
func (r *PostgresFolderRepository) AdjustDocumentCount(ctx context.Context, id string, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET no_of_documents = GREATEST(no_of_documents + $1, 0), updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, delta, id); err != nil {
		return fmt.Errorf("adjust folder document count: %w", err)
	}

	return nil
}

// Delete soft-deletes a folder
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.ClientID,
		&f.TeamspaceID,
		&f.Name,
		&f.NoOfDocuments,
		&f.IsTrained,
		&f.ReTrainingRequired,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
