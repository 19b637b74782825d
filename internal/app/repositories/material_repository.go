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

// MaterialRepository handles database operations for materials
type MaterialRepository struct {
	db *pgxpool.Pool
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create inserts a new material and returns its id
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) (int64, error) {
	query := `
		INSERT INTO materials (
			title, description, material_type, condition, category,
			image_url, objective, location, available, owner_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		material.Title,
		material.Description,
		material.Type,
		material.Condition,
		material.Category,
		material.ImageURL,
		material.Objective,
		material.Location,
		material.Available,
		material.OwnerID,
	).Scan(&material.ID, &material.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating material: %w", err)
	}

	return material.ID, nil
}

// GetByID retrieves a material by id, with owner display fields
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	query := `
		SELECT
			m.id, m.title, m.description, m.material_type, m.condition, m.category,
			m.image_url, m.objective, m.location, m.available, m.owner_id, m.created_at,
			u.full_name, u.email
		FROM materials m
		LEFT JOIN users u ON m.owner_id = u.id
		WHERE m.id = $1
	`

	var material models.Material
	var ownerName, ownerEmail *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&material.ID,
		&material.Title,
		&material.Description,
		&material.Type,
		&material.Condition,
		&material.Category,
		&material.ImageURL,
		&material.Objective,
		&material.Location,
		&material.Available,
		&material.OwnerID,
		&material.CreatedAt,
		&ownerName,
		&ownerEmail,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error retrieving material: %w", err)
	}

	if ownerName != nil {
		material.Owner = &models.User{ID: material.OwnerID, FullName: *ownerName}
		if ownerEmail != nil {
			material.Owner.Email = *ownerEmail
		}
	}

	return &material, nil
}

// GetAll retrieves materials matching the filter, newest first
func (r *MaterialRepository) GetAll(ctx context.Context, filter *dto.MaterialFilter) ([]*models.Material, error) {
	queryBuilder := squirrel.Select(
		"m.id", "m.title", "m.description", "m.material_type", "m.condition", "m.category",
		"m.image_url", "m.objective", "m.location", "m.available", "m.owner_id", "m.created_at",
	).
		From("materials m").
		OrderBy("m.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Type != nil {
		queryBuilder = queryBuilder.Where("m.material_type = ?", *filter.Type)
	}
	if filter.Category != nil {
		queryBuilder = queryBuilder.Where("m.category = ?", *filter.Category)
	}
	if filter.Objective != nil {
		queryBuilder = queryBuilder.Where("m.objective = ?", *filter.Objective)
	}
	if filter.Available != nil {
		queryBuilder = queryBuilder.Where("m.available = ?", *filter.Available)
	}
	if filter.OwnerID != nil {
		queryBuilder = queryBuilder.Where("m.owner_id = ?", *filter.OwnerID)
	}
	if filter.Location != nil {
		queryBuilder = queryBuilder.Where("m.location ILIKE ?", "%"+*filter.Location+"%")
	}
	if filter.Search != nil {
		queryBuilder = queryBuilder.Where("(m.title ILIKE ? OR m.description ILIKE ?)",
			"%"+*filter.Search+"%", "%"+*filter.Search+"%")
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

	var materials []*models.Material
	for rows.Next() {
		var material models.Material
		err := rows.Scan(
			&material.ID,
			&material.Title,
			&material.Description,
			&material.Type,
			&material.Condition,
			&material.Category,
			&material.ImageURL,
			&material.Objective,
			&material.Location,
			&material.Available,
			&material.OwnerID,
			&material.CreatedAt,
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

// Update applies the non-nil fields of the patch to the material row
func (r *MaterialRepository) Update(ctx context.Context, id int64, patch *dto.UpdateMaterialRequest) error {
	queryBuilder := squirrel.Update("materials").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	set := false
	if patch.Title != nil {
		queryBuilder = queryBuilder.Set("title", *patch.Title)
		set = true
	}
	if patch.Description != nil {
		queryBuilder = queryBuilder.Set("description", *patch.Description)
		set = true
	}
	if patch.Type != nil {
		queryBuilder = queryBuilder.Set("material_type", *patch.Type)
		set = true
	}
	if patch.Condition != nil {
		queryBuilder = queryBuilder.Set("condition", *patch.Condition)
		set = true
	}
	if patch.Category != nil {
		queryBuilder = queryBuilder.Set("category", *patch.Category)
		set = true
	}
	if patch.ImageURL != nil {
		queryBuilder = queryBuilder.Set("image_url", *patch.ImageURL)
		set = true
	}
	if patch.Objective != nil {
		queryBuilder = queryBuilder.Set("objective", *patch.Objective)
		set = true
	}
	if patch.Location != nil {
		queryBuilder = queryBuilder.Set("location", *patch.Location)
		set = true
	}

	if !set {
		return apperrors.ErrEmptyUpdate
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating material: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}

	return nil
}

// SetAvailability updates only the availability flag
func (r *MaterialRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	result, err := r.db.Exec(ctx, `UPDATE materials SET available = $1 WHERE id = $2`, available, id)
	if err != nil {
		return fmt.Errorf("error updating material availability: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}

	return nil
}

// Delete removes a material row
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting material: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}

	return nil
}
