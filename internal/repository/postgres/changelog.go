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

// PostgresChangeLogRepository implements the ChangeLogRepository interface
type PostgresChangeLogRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChangeLogRepository creates a new change log repository
func NewChangeLogRepository(config *RepositoryConfig) repositories.ChangeLogRepository {
	return &PostgresChangeLogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const changeLogColumns = `id, document_id, byte_id, recommendation_id, changed_by,
	section_main_heading_1, section_main_heading_2, section_main_heading_3, section_main_heading_4,
	section_content, attribute_id, change_summary, change_request_type, is_trained,
	ai_recommendation_status, created_at`

// Create inserts one immutable audit record
func (r *PostgresChangeLogRepository) Create(ctx context.Context, entry *models.ChangeLog) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, byte_id, recommendation_id, changed_by,
			section_main_heading_1, section_main_heading_2, section_main_heading_3, section_main_heading_4,
			section_content, attribute_id, change_summary, change_request_type, is_trained,
			ai_recommendation_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`, r.tables.ChangeLogs)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.DocumentID,
		entry.ByteID,
		entry.RecommendationID,
		entry.ChangedBy,
		entry.Heading1,
		entry.Heading2,
		entry.Heading3,
		entry.Heading4,
		entry.SectionContent,
		entry.AttributeID,
		entry.ChangeSummary,
		entry.ChangeRequestType,
		entry.IsTrained,
		entry.AIRecommendationStatus,
		entry.CreatedAt,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("change log references missing entity: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create change log: %w", err)
	}

	return nil
}

// ListByDocument lists a document's audit records, newest first
func (r *PostgresChangeLogRepository) ListByDocument(ctx context.Context, docID string) ([]models.ChangeLog, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at DESC
	`, changeLogColumns, r.tables.ChangeLogs)

	return r.list(ctx, query, docID)
}

// ListByByte lists a byte's audit records, newest first
func (r *PostgresChangeLogRepository) ListByByte(ctx context.Context, byteID string) ([]models.ChangeLog, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE byte_id = $1
		ORDER BY created_at DESC
	`, changeLogColumns, r.tables.ChangeLogs)

	return r.list(ctx, query, byteID)
}

func (r *PostgresChangeLogRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ChangeLog, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list change logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ChangeLog
	for rows.Next() {
		var entry models.ChangeLog
		err := rows.Scan(
			&entry.ID,
			&entry.DocumentID,
			&entry.ByteID,
			&entry.RecommendationID,
			&entry.ChangedBy,
			&entry.Heading1,
			&entry.Heading2,
			&entry.Heading3,
			&entry.Heading4,
			&entry.SectionContent,
			&entry.AttributeID,
			&entry.ChangeSummary,
			&entry.ChangeRequestType,
			&entry.IsTrained,
			&entry.AIRecommendationStatus,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change logs: %w", err)
	}

	// Return empty slice instead of nil
	if entries == nil {
		entries = []models.ChangeLog{}
	}

	return entries, nil
}
