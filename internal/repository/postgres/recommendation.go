package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecommendationRepository implements the RecommendationRepository interface
type PostgresRecommendationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(config *RepositoryConfig) repositories.RecommendationRepository {
	return &PostgresRecommendationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// CreateBatch inserts one row per recommendation
func (r *PostgresRecommendationRepository) CreateBatch(ctx context.Context, recs []models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (byte_id, document_id, payload, recommendation_action, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.tables.Recommendations)

	executor := GetExecutor(ctx, r.pool)
	for i := range recs {
		payload, err := json.Marshal(recs[i].Payload)
		if err != nil {
			return fmt.Errorf("marshal recommendation payload: %w", err)
		}

		err = executor.QueryRow(ctx, query,
			recs[i].ByteID,
			recs[i].DocumentID,
			payload,
			recs[i].RecommendationAction,
			recs[i].CreatedAt,
		).Scan(&recs[i].ID)
		if err != nil {
			if IsPgForeignKeyError(err) {
				return fmt.Errorf("recommendation references missing byte or document: %w", domain.ErrNotFound)
			}
			return fmt.Errorf("create recommendation: %w", err)
		}
	}

	return nil
}

// GetByID retrieves one recommendation
func (r *PostgresRecommendationRepository) GetByID(ctx context.Context, id string) (*models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT id, byte_id, document_id, payload, recommendation_action, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Recommendations)

	executor := GetExecutor(ctx, r.pool)
	rec, err := scanRecommendation(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("recommendation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	return rec, nil
}

// ListUnresolvedByByte returns the byte's recommendations that have no
// change-log row yet, oldest first.
func (r *PostgresRecommendationRepository) ListUnresolvedByByte(ctx context.Context, byteID string) ([]models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT rec.id, rec.byte_id, rec.document_id, rec.payload, rec.recommendation_action, rec.created_at
		FROM %s rec
		WHERE rec.byte_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM %s cl WHERE cl.recommendation_id = rec.id
		  )
		ORDER BY rec.created_at ASC
	`, r.tables.Recommendations, r.tables.ChangeLogs)

	return r.list(ctx, query, byteID)
}

// ListByDocument returns every recommendation targeting a document
func (r *PostgresRecommendationRepository) ListByDocument(ctx context.Context, docID string) ([]models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT id, byte_id, document_id, payload, recommendation_action, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at ASC
	`, r.tables.Recommendations)

	return r.list(ctx, query, docID)
}

func (r *PostgresRecommendationRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Recommendation, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}

	// Return empty slice instead of nil
	if recs == nil {
		recs = []models.Recommendation{}
	}

	return recs, nil
}

// DeleteByDocument removes every recommendation for the document and
// returns the owning byte id of each removed row.
func (r *PostgresRecommendationRepository) DeleteByDocument(ctx context.Context, docID string) ([]string, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
		RETURNING byte_id
	`, r.tables.Recommendations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("delete recommendations by document: %w", err)
	}
	defer rows.Close()

	var byteIDs []string
	for rows.Next() {
		var byteID string
		if err := rows.Scan(&byteID); err != nil {
			return nil, fmt.Errorf("scan deleted recommendation: %w", err)
		}
		byteIDs = append(byteIDs, byteID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted recommendations: %w", err)
	}

	return byteIDs, nil
}

// CountUnresolvedByByte counts the byte's recommendations that have no
// change-log row.
func (r *PostgresRecommendationRepository) CountUnresolvedByByte(ctx context.Context, byteID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s rec
		WHERE rec.byte_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM %s cl WHERE cl.recommendation_id = rec.id
		  )
	`, r.tables.Recommendations, r.tables.ChangeLogs)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, byteID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unresolved recommendations: %w", err)
	}

	return count, nil
}

func scanRecommendation(row rowScanner) (*models.Recommendation, error) {
	var rec models.Recommendation
	var payload []byte
	err := row.Scan(
		&rec.ID,
		&rec.ByteID,
		&rec.DocumentID,
		&payload,
		&rec.RecommendationAction,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &rec.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal recommendation payload: %w", err)
	}

	return &rec, nil
}
