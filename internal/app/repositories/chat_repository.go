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
	"github.com/circularis/backend/internal/db"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create inserts a new chat and returns its id
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) (int64, error) {
	query := `
		INSERT INTO chats (user_a_id, user_b_id, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		chat.UserAID,
		chat.UserBID,
		chat.Active,
	).Scan(&chat.ID, &chat.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating chat: %w", err)
	}

	return chat.ID, nil
}

// FindByPair looks up the chat for a pair of users, checking both column
// orderings so the pair stays unordered.
func (r *ChatRepository) FindByPair(ctx context.Context, userA, userB int64) (*models.Chat, error) {
	query := `
		SELECT id, user_a_id, user_b_id, active, created_at
		FROM chats
		WHERE (user_a_id = $1 AND user_b_id = $2)
		   OR (user_a_id = $2 AND user_b_id = $1)
	`

	var chat models.Chat
	err := r.db.QueryRow(ctx, query, userA, userB).Scan(
		&chat.ID,
		&chat.UserAID,
		&chat.UserBID,
		&chat.Active,
		&chat.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("error retrieving chat by pair: %w", err)
	}

	return &chat, nil
}

// GetByID retrieves a chat by id, with participant display fields
func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	query := `
		SELECT
			c.id, c.user_a_id, c.user_b_id, c.active, c.created_at,
			ua.full_name, ua.email, ua.profile_photo_url,
			ub.full_name, ub.email, ub.profile_photo_url
		FROM chats c
		LEFT JOIN users ua ON c.user_a_id = ua.id
		LEFT JOIN users ub ON c.user_b_id = ub.id
		WHERE c.id = $1
	`

	var chat models.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.UserAID,
		&chat.UserBID,
		&chat.Active,
		&chat.CreatedAt,
		&chat.UserAName,
		&chat.UserAEmail,
		&chat.UserAPhoto,
		&chat.UserBName,
		&chat.UserBEmail,
		&chat.UserBPhoto,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("error retrieving chat: %w", err)
	}

	return &chat, nil
}

// GetAll retrieves chats matching the filter, ordered by most recent message
// first, falling back to creation time for chats with no messages yet.
func (r *ChatRepository) GetAll(ctx context.Context, filter *dto.ChatFilter) ([]*models.Chat, error) {
	queryBuilder := squirrel.Select(
		"c.id", "c.user_a_id", "c.user_b_id", "c.active", "c.created_at",
		"ua.full_name", "ub.full_name",
		"(SELECT COUNT(*) FROM messages msg WHERE msg.chat_id = c.id) AS message_count",
		"(SELECT MAX(msg.sent_at) FROM messages msg WHERE msg.chat_id = c.id) AS last_message_at",
	).
		From("chats c").
		LeftJoin("users ua ON c.user_a_id = ua.id").
		LeftJoin("users ub ON c.user_b_id = ub.id").
		OrderBy("last_message_at DESC NULLS LAST", "c.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.ParticipantID != nil {
		queryBuilder = queryBuilder.Where("(c.user_a_id = ? OR c.user_b_id = ?)",
			*filter.ParticipantID, *filter.ParticipantID)
	}
	if filter.Active != nil {
		queryBuilder = queryBuilder.Where("c.active = ?", *filter.Active)
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

	var chats []*models.Chat
	for rows.Next() {
		var chat models.Chat
		err := rows.Scan(
			&chat.ID,
			&chat.UserAID,
			&chat.UserBID,
			&chat.Active,
			&chat.CreatedAt,
			&chat.UserAName,
			&chat.UserBName,
			&chat.MessageCount,
			&chat.LastMessageAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat row: %w", err)
		}
		chats = append(chats, &chat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	return chats, nil
}

// SetActive updates only the active flag
func (r *ChatRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE chats SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating chat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrChatNotFound
	}

	return nil
}

// DeleteWithMessages removes a chat and all its messages in one transaction
func (r *ChatRepository) DeleteWithMessages(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE chat_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting chat messages: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting chat: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrChatNotFound
		}

		return nil
	})
}
