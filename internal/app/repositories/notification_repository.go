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

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification and returns its id
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (title, message, notification_type, read, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sent_at
	`

	err := r.db.QueryRow(ctx, query,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Read,
		notification.UserID,
	).Scan(&notification.ID, &notification.SentAt)

	if err != nil {
		return 0, fmt.Errorf("error creating notification: %w", err)
	}

	return notification.ID, nil
}

// GetByID retrieves a notification by id
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	query := `
		SELECT id, title, message, notification_type, read, user_id, sent_at
		FROM notifications
		WHERE id = $1
	`

	var notification models.Notification
	err := r.db.QueryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&notification.Read,
		&notification.UserID,
		&notification.SentAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving notification: %w", err)
	}

	return &notification, nil
}

// GetAll retrieves notifications matching the filter, newest first
func (r *NotificationRepository) GetAll(ctx context.Context, filter *dto.NotificationFilter) ([]*models.Notification, error) {
	queryBuilder := squirrel.Select(
		"id", "title", "message", "notification_type", "read", "user_id", "sent_at",
	).
		From("notifications").
		OrderBy("sent_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.UserID != nil {
		queryBuilder = queryBuilder.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		queryBuilder = queryBuilder.Where("notification_type = ?", *filter.Type)
	}
	if filter.Read != nil {
		queryBuilder = queryBuilder.Where("read = ?", *filter.Read)
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

	var notifications []*models.Notification
	for rows.Next() {
		var notification models.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.Title,
			&notification.Message,
			&notification.Type,
			&notification.Read,
			&notification.UserID,
			&notification.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// MarkRead flags a single notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// MarkAllReadForUser flags all of a user's unread notifications as read
func (r *NotificationRepository) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountUnreadForUser counts a user's unread notifications
func (r *NotificationRepository) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}

	return count, nil
}

// Delete removes a notification row
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
