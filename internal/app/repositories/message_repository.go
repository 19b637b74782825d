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

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message and returns its id
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) (int64, error) {
	query := `
		INSERT INTO messages (chat_id, sender_id, content, read)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sent_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ChatID,
		message.SenderID,
		message.Content,
		message.Read,
	).Scan(&message.ID, &message.SentAt)

	if err != nil {
		return 0, fmt.Errorf("error creating message: %w", err)
	}

	return message.ID, nil
}

// GetByID retrieves a message by id, with sender display fields
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `
		SELECT
			m.id, m.chat_id, m.sender_id, m.content, m.read, m.sent_at,
			u.full_name, u.email, u.profile_photo_url
		FROM messages m
		LEFT JOIN users u ON m.sender_id = u.id
		WHERE m.id = $1
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.ChatID,
		&message.SenderID,
		&message.Content,
		&message.Read,
		&message.SentAt,
		&message.SenderName,
		&message.SenderEmail,
		&message.SenderPhoto,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}

	return &message, nil
}

// GetAll retrieves messages matching the filter in chronological order,
// oldest first, so clients can render a conversation top to bottom.
func (r *MessageRepository) GetAll(ctx context.Context, filter *dto.MessageFilter) ([]*models.Message, error) {
	queryBuilder := squirrel.Select(
		"m.id", "m.chat_id", "m.sender_id", "m.content", "m.read", "m.sent_at",
		"u.full_name", "u.profile_photo_url",
	).
		From("messages m").
		LeftJoin("users u ON m.sender_id = u.id").
		OrderBy("m.sent_at ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.ChatID != nil {
		queryBuilder = queryBuilder.Where("m.chat_id = ?", *filter.ChatID)
	}
	if filter.SenderID != nil {
		queryBuilder = queryBuilder.Where("m.sender_id = ?", *filter.SenderID)
	}
	if filter.Read != nil {
		queryBuilder = queryBuilder.Where("m.read = ?", *filter.Read)
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

	var messages []*models.Message
	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.SenderID,
			&message.Content,
			&message.Read,
			&message.SentAt,
			&message.SenderName,
			&message.SenderPhoto,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, &message)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// MarkRead flags a single message as read
func (r *MessageRepository) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE messages SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking message read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}

// MarkAllRead flags every unread message in the chat not sent by the caller
// as read, and returns how many rows changed. Running it again is a no-op.
func (r *MessageRepository) MarkAllRead(ctx context.Context, chatID, callerID int64) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE messages SET read = true WHERE chat_id = $1 AND sender_id != $2 AND read = false`,
		chatID, callerID)
	if err != nil {
		return 0, fmt.Errorf("error marking chat messages read: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountUnread counts unread messages in the chat sent by the other participant
func (r *MessageRepository) CountUnread(ctx context.Context, chatID, callerID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE chat_id = $1 AND sender_id != $2 AND read = false`,
		chatID, callerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return count, nil
}

// Delete removes a message row
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}
