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

// ReportRepository handles database operations for abuse reports
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report and returns its id
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) (int64, error) {
	query := `
		INSERT INTO reports (description, report_type, resolved, reporter_id, reported_id, material_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		report.Description,
		report.Type,
		report.Resolved,
		report.ReporterID,
		report.ReportedID,
		report.MaterialID,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating report: %w", err)
	}

	return report.ID, nil
}

// GetByID retrieves a report by id
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	query := `
		SELECT id, description, report_type, resolved, reporter_id, reported_id, material_id, created_at
		FROM reports
		WHERE id = $1
	`

	var report models.Report
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Description,
		&report.Type,
		&report.Resolved,
		&report.ReporterID,
		&report.ReportedID,
		&report.MaterialID,
		&report.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving report: %w", err)
	}

	return &report, nil
}

// GetAll retrieves reports matching the filter, newest first
func (r *ReportRepository) GetAll(ctx context.Context, filter *dto.ReportFilter) ([]*models.Report, error) {
	queryBuilder := squirrel.Select(
		"id", "description", "report_type", "resolved", "reporter_id", "reported_id", "material_id", "created_at",
	).
		From("reports").
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Type != nil {
		queryBuilder = queryBuilder.Where("report_type = ?", *filter.Type)
	}
	if filter.Resolved != nil {
		queryBuilder = queryBuilder.Where("resolved = ?", *filter.Resolved)
	}
	if filter.ReporterID != nil {
		queryBuilder = queryBuilder.Where("reporter_id = ?", *filter.ReporterID)
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

	var reports []*models.Report
	for rows.Next() {
		var report models.Report
		err := rows.Scan(
			&report.ID,
			&report.Description,
			&report.Type,
			&report.Resolved,
			&report.ReporterID,
			&report.ReportedID,
			&report.MaterialID,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		reports = append(reports, &report)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return reports, nil
}

// Update applies the non-nil fields of the patch to the report row
func (r *ReportRepository) Update(ctx context.Context, id int64, patch *dto.UpdateReportRequest) error {
	queryBuilder := squirrel.Update("reports").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	set := false
	if patch.Description != nil {
		queryBuilder = queryBuilder.Set("description", *patch.Description)
		set = true
	}
	if patch.Resolved != nil {
		queryBuilder = queryBuilder.Set("resolved", *patch.Resolved)
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
		return fmt.Errorf("error updating report: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// Delete removes a report row
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting report: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
