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

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, client_id, folder_id, teamspace_id, name, raw_url, vector_db_path,
	parsed_doc_path, version_number, is_trained, re_training_required, created_by, updated_by,
	created_at, updated_at`

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (client_id, folder_id, teamspace_id, name, raw_url, vector_db_path,
			parsed_doc_path, version_number, is_trained, re_training_required, created_by, updated_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ClientID,
		doc.FolderID,
		doc.TeamspaceID,
		doc.Name,
		doc.RawURL,
		doc.VectorDBPath,
		doc.ParsedDocPath,
		doc.VersionNumber,
		doc.IsTrained,
		doc.ReTrainingRequired,
		doc.CreatedBy,
		doc.UpdatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("document '%s' already exists in this location: %w", doc.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// ListByClient lists a client's documents, most recently updated first
func (r *PostgresDocumentRepository) ListByClient(ctx context.Context, clientID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE client_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	return r.list(ctx, query, clientID)
}

// ListByFolder lists documents in a folder
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, documentColumns, r.tables.Documents)

	return r.list(ctx, query, folderID)
}

func (r *PostgresDocumentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	// Return empty slice instead of nil
	if documents == nil {
		documents = []models.Document{}
	}

	return documents, nil
}

// Update updates a document's mutable fields
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, teamspace_id = $2, name = $3, raw_url = $4, vector_db_path = $5,
			parsed_doc_path = $6, version_number = $7, is_trained = $8, re_training_required = $9,
			updated_by = $10, updated_at = $11
		WHERE id = $12 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.FolderID,
		doc.TeamspaceID,
		doc.Name,
		doc.RawURL,
		doc.VectorDBPath,
		doc.ParsedDocPath,
		doc.VersionNumber,
		doc.IsTrained,
		doc.ReTrainingRequired,
		doc.UpdatedBy,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document '%s' already exists in this location", doc.Name),
				ResourceType: "document",
				ResourceID:   doc.ID,
			}
		}
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdatePathsByClient applies parsed/vector content paths to every
// document of one client.
func (r *PostgresDocumentRepository) UpdatePathsByClient(ctx context.Context, clientID, parsedPath, vectorPath string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parsed_doc_path = $1, vector_db_path = $2, updated_at = NOW()
		WHERE client_id = $3 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, parsedPath, vectorPath, clientID); err != nil {
		return fmt.Errorf("update document paths: %w", err)
	}

	return nil
}

// Delete soft-deletes a document by setting deleted_at
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByFolder soft-deletes every document in a folder and returns
// the ids of the removed documents.
func (r *PostgresDocumentRepository) DeleteByFolder(ctx context.Context, folderID string) ([]string, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE folder_id = $1 AND deleted_at IS NULL
		RETURNING id
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("delete documents by folder: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted document: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted documents: %w", err)
	}

	return ids, nil
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.ClientID,
		&doc.FolderID,
		&doc.TeamspaceID,
		&doc.Name,
		&doc.RawURL,
		&doc.VectorDBPath,
		&doc.ParsedDocPath,
		&doc.VersionNumber,
		&doc.IsTrained,
		&doc.ReTrainingRequired,
		&doc.CreatedBy,
		&doc.UpdatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
