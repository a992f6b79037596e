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

// PostgresByteRepository implements the ByteRepository interface
type PostgresByteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewByteRepository creates a new byte repository
func NewByteRepository(config *RepositoryConfig) repositories.ByteRepository {
	return &PostgresByteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const byteColumns = `id, user_id, client_id, document_id, email, request_text, status,
	no_of_recommendations, is_processed_by_recommendation, is_deleted, user_feedback,
	created_at, updated_at`

// Create inserts a new byte
func (r *PostgresByteRepository) Create(ctx context.Context, b *models.Byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, client_id, document_id, email, request_text, status,
			no_of_recommendations, is_processed_by_recommendation, is_deleted, user_feedback,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		b.UserID,
		b.ClientID,
		b.DocumentID,
		b.Email,
		b.RequestText,
		b.Status,
		b.NoOfRecommendations,
		b.IsProcessedByRecommendation,
		b.IsDeleted,
		b.UserFeedback,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create byte: %w", err)
	}

	return nil
}

// GetByID retrieves a byte that has not been soft-deleted
func (r *PostgresByteRepository) GetByID(ctx context.Context, id string) (*models.Byte, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, byteColumns, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	b, err := scanByte(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("byte %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get byte: %w", err)
	}

	return b, nil
}

// ListByClient lists a client's bytes, newest first
func (r *PostgresByteRepository) ListByClient(ctx context.Context, clientID string) ([]models.Byte, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE client_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
	`, byteColumns, r.tables.Bytes)

	return r.list(ctx, query, clientID)
}

// ListByUser lists a user's bytes, newest first
func (r *PostgresByteRepository) ListByUser(ctx context.Context, userID string) ([]models.Byte, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
	`, byteColumns, r.tables.Bytes)

	return r.list(ctx, query, userID)
}

func (r *PostgresByteRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Byte, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bytes: %w", err)
	}
	defer rows.Close()

	var bytes []models.Byte
	for rows.Next() {
		b, err := scanByte(rows)
		if err != nil {
			return nil, fmt.Errorf("scan byte: %w", err)
		}
		bytes = append(bytes, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bytes: %w", err)
	}

	// Return empty slice instead of nil
	if bytes == nil {
		bytes = []models.Byte{}
	}

	return bytes, nil
}

// SetStatus updates the lifecycle status label
func (r *PostgresByteRepository) SetStatus(ctx context.Context, id, status string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
	`, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set byte status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("byte %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetUserFeedback sets or clears the free-text feedback field
func (r *PostgresByteRepository) SetUserFeedback(ctx context.Context, id string, feedback *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET user_feedback = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
	`, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, feedback, id)
	if err != nil {
		return fmt.Errorf("set byte feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("byte %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetRecommendationState records the outstanding count and processed flag
func (r *PostgresByteRepository) SetRecommendationState(ctx context.Context, id string, count int, processed bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET no_of_recommendations = $1, is_processed_by_recommendation = $2, updated_at = NOW()
		WHERE id = $3 AND is_deleted = FALSE
	`, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, count, processed, id)
	if err != nil {
		return fmt.Errorf("set byte recommendation state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("byte %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DecrementRecommendations decrements the outstanding count by one,
// only when the current count is positive. The guard lives in the SQL
// so concurrent decrements cannot push the counter negative.
func (r *PostgresByteRepository) DecrementRecommendations(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET no_of_recommendations = no_of_recommendations - 1, updated_at = NOW()
		WHERE id = $1 AND no_of_recommendations > 0 AND is_deleted = FALSE
	`, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	// Zero rows affected means the count was already zero; that is a
	// no-op, not an error.
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("decrement byte recommendations: %w", err)
	}

	return nil
}

// SoftDelete marks a byte deleted without removing the row
func (r *PostgresByteRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`, r.tables.Bytes)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete byte: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("byte %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// rowScanner matches both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanByte(row rowScanner) (*models.Byte, error) {
	var b models.Byte
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ClientID,
		&b.DocumentID,
		&b.Email,
		&b.RequestText,
		&b.Status,
		&b.NoOfRecommendations,
		&b.IsProcessedByRecommendation,
		&b.IsDeleted,
		&b.UserFeedback,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
