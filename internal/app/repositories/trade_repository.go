package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/db"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// TradeRepository handles database operations for trades
type TradeRepository struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create inserts a new trade in the requested state and returns its id
func (r *TradeRepository) Create(ctx context.Context, trade *models.Trade) (int64, error) {
	query := `
		INSERT INTO trades (material_id, requester_id, donor_id, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, requested_at
	`

	err := r.db.QueryRow(ctx, query,
		trade.MaterialID,
		trade.RequesterID,
		trade.DonorID,
		trade.Notes,
	).Scan(&trade.ID, &trade.RequestedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating trade: %w", err)
	}

	return trade.ID, nil
}

// GetByID retrieves a trade by id, enriched with material and user display fields
func (r *TradeRepository) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	query := `
		SELECT
			t.id, t.material_id, t.requester_id, t.donor_id, t.notes, t.requested_at, t.completed_at,
			m.title, m.material_type,
			ur.full_name, ur.email,
			ud.full_name, ud.email
		FROM trades t
		LEFT JOIN materials m ON t.material_id = m.id
		LEFT JOIN users ur ON t.requester_id = ur.id
		LEFT JOIN users ud ON t.donor_id = ud.id
		WHERE t.id = $1
	`

	var trade models.Trade
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trade.ID,
		&trade.MaterialID,
		&trade.RequesterID,
		&trade.DonorID,
		&trade.Notes,
		&trade.RequestedAt,
		&trade.CompletedAt,
		&trade.MaterialTitle,
		&trade.MaterialType,
		&trade.RequesterName,
		&trade.RequesterEmail,
		&trade.DonorName,
		&trade.DonorEmail,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTradeNotFound
		}
		return nil, fmt.Errorf("error retrieving trade: %w", err)
	}

	return &trade, nil
}

// GetAll retrieves trades matching the filter, most recent request first
func (r *TradeRepository) GetAll(ctx context.Context, filter *dto.TradeFilter) ([]*models.Trade, error) {
	queryBuilder := squirrel.Select(
		"t.id", "t.material_id", "t.requester_id", "t.donor_id", "t.notes",
		"t.requested_at", "t.completed_at",
		"m.title", "m.material_type",
		"ur.full_name", "ud.full_name",
	).
		From("trades t").
		LeftJoin("materials m ON t.material_id = m.id").
		LeftJoin("users ur ON t.requester_id = ur.id").
		LeftJoin("users ud ON t.donor_id = ud.id").
		OrderBy("t.requested_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.RequesterID != nil {
		queryBuilder = queryBuilder.Where("t.requester_id = ?", *filter.RequesterID)
	}
	if filter.DonorID != nil {
		queryBuilder = queryBuilder.Where("t.donor_id = ?", *filter.DonorID)
	}
	if filter.MaterialID != nil {
		queryBuilder = queryBuilder.Where("t.material_id = ?", *filter.MaterialID)
	}
	if filter.Completed != nil {
		if *filter.Completed {
			queryBuilder = queryBuilder.Where("t.completed_at IS NOT NULL")
		} else {
			queryBuilder = queryBuilder.Where("t.completed_at IS NULL")
		}
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

	var trades []*models.Trade
	for rows.Next() {
		var trade models.Trade
		err := rows.Scan(
			&trade.ID,
			&trade.MaterialID,
			&trade.RequesterID,
			&trade.DonorID,
			&trade.Notes,
			&trade.RequestedAt,
			&trade.CompletedAt,
			&trade.MaterialTitle,
			&trade.MaterialType,
			&trade.RequesterName,
			&trade.DonorName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning trade row: %w", err)
		}
		trades = append(trades, &trade)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}

	return trades, nil
}

// UpdateNotes applies a notes-only patch to a trade row
func (r *TradeRepository) UpdateNotes(ctx context.Context, id int64, notes *string) error {
	if notes == nil {
		return apperrors.ErrEmptyUpdate
	}

	result, err := r.db.Exec(ctx, `UPDATE trades SET notes = $1 WHERE id = $2`, *notes, id)
	if err != nil {
		return fmt.Errorf("error updating trade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTradeNotFound
	}

	return nil
}

// Complete marks the trade completed and flips the material unavailable.
// Both writes run in a single transaction so a crash between them cannot
// leave a completed trade with an available material.
func (r *TradeRepository) Complete(ctx context.Context, tradeID, materialID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE trades SET completed_at = $1 WHERE id = $2 AND completed_at IS NULL`,
			time.Now(), tradeID)
		if err != nil {
			return fmt.Errorf("error completing trade: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrTradeCompleted
		}

		if _, err := tx.Exec(ctx,
			`UPDATE materials SET available = false WHERE id = $1`, materialID); err != nil {
			return fmt.Errorf("error marking material unavailable: %w", err)
		}

		return nil
	})
}

// Delete removes a trade row (cancellation)
func (r *TradeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting trade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTradeNotFound
	}

	return nil
}

// CountByMaterial counts trades referencing a material
func (r *TradeRepository) CountByMaterial(ctx context.Context, materialID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trades WHERE material_id = $1`, materialID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting trades for material: %w", err)
	}
	return count, nil
}
