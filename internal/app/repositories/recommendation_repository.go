package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// Batch size for generated recommendations per user.
const generationBatchLimit = 10

// RecommendationRepository handles database operations for recommendations
type RecommendationRepository struct {
	db *pgxpool.Pool
}

// NewRecommendationRepository creates a new RecommendationRepository
func NewRecommendationRepository(db *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create inserts a new recommendation and returns its id
func (r *RecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) (int64, error) {
	query := `
		INSERT INTO recommendations (reason, user_id, material_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.Reason,
		rec.UserID,
		rec.MaterialID,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating recommendation: %w", err)
	}

	return rec.ID, nil
}

// GetByID retrieves a recommendation by id, with material display fields
func (r *RecommendationRepository) GetByID(ctx context.Context, id int64) (*models.Recommendation, error) {
	query := `
		SELECT
			r.id, r.reason, r.user_id, r.material_id, r.created_at,
			m.title, m.material_type
		FROM recommendations r
		LEFT JOIN materials m ON r.material_id = m.id
		WHERE r.id = $1
	`

	var rec models.Recommendation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Reason,
		&rec.UserID,
		&rec.MaterialID,
		&rec.CreatedAt,
		&rec.MaterialTitle,
		&rec.MaterialType,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving recommendation: %w", err)
	}

	return &rec, nil
}

// GetAll retrieves recommendations matching the filter, newest first
func (r *RecommendationRepository) GetAll(ctx context.Context, filter *dto.RecommendationFilter) ([]*models.Recommendation, error) {
	queryBuilder := squirrel.Select(
		"r.id", "r.reason", "r.user_id", "r.material_id", "r.created_at",
		"m.title", "m.material_type",
	).
		From("recommendations r").
		LeftJoin("materials m ON r.material_id = m.id").
		OrderBy("r.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.UserID != nil {
		queryBuilder = queryBuilder.Where("r.user_id = ?", *filter.UserID)
	}
	if filter.MaterialID != nil {
		queryBuilder = queryBuilder.Where("r.material_id = ?", *filter.MaterialID)
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		err := rows.Scan(
			&rec.ID,
			&rec.Reason,
			&rec.UserID,
			&rec.MaterialID,
			&rec.CreatedAt,
			&rec.MaterialTitle,
			&rec.MaterialType,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning recommendation row: %w", err)
		}
		recs = append(recs, &rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendation rows: %w", err)
	}

	return recs, nil
}

// FindUnseenMaterials returns available materials the user does not own and
// has not been recommended yet, newest first, capped at the batch limit.
func (r *RecommendationRepository) FindUnseenMaterials(ctx context.Context, userID int64) ([]*models.Material, error) {
	query := `
		SELECT m.id, m.title, m.material_type, m.category, m.objective
		FROM materials m
		WHERE m.available = true
		  AND m.owner_id != $1
		  AND NOT EXISTS (
			SELECT 1 FROM recommendations r
			WHERE r.user_id = $1 AND r.material_id = m.id
		  )
		ORDER BY m.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, generationBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("error finding unseen materials: %w", err)
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		var material models.Material
		err := rows.Scan(
			&material.ID,
			&material.Title,
			&material.Type,
			&material.Category,
			&material.Objective,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning material row: %w", err)
		}
		materials = append(materials, &material)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating material rows: %w", err)
	}

	return materials, nil
}

// Update applies a partial update to a recommendation
func (r *RecommendationRepository) Update(ctx context.Context, id int64, req *dto.UpdateRecommendationRequest) error {
	updateBuilder := squirrel.Update("recommendations").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	hasUpdates := false
	if req.Reason != nil {
		updateBuilder = updateBuilder.Set("reason", *req.Reason)
		hasUpdates = true
	}

	if !hasUpdates {
		return apperrors.ErrEmptyUpdate
	}

	sql, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating recommendation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// Delete removes a recommendation row
func (r *RecommendationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM recommendations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting recommendation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
