package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
	"github.com/circularis/backend/internal/pkg/metrics"
)

// messageStore is the slice of the message repository the service needs
type messageStore interface {
	Create(ctx context.Context, message *models.Message) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetAll(ctx context.Context, filter *dto.MessageFilter) ([]*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, chatID, callerID int64) (int64, error)
	CountUnread(ctx context.Context, chatID, callerID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// chatReader looks up chats for message validation
type chatReader interface {
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
}

// MessageService defines the interface for chat message operations
type MessageService interface {
	Send(ctx context.Context, req *dto.SendMessageRequest) (*models.Message, error)
	ListByChat(ctx context.Context, chatID int64, limit, offset int) ([]*models.Message, error)
	GetAll(ctx context.Context, filter *dto.MessageFilter) ([]*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, chatID, callerID int64) (int64, error)
	UnreadCount(ctx context.Context, chatID, callerID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	messageRepo messageStore
	chatRepo    chatReader
	logger      zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(messageRepo messageStore, chatRepo chatReader, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		logger:      logger,
	}
}

// Send persists a message after validating the chat is active and the
// sender is one of its participants. New messages start unread.
func (s *messageServiceImpl) Send(ctx context.Context, req *dto.SendMessageRequest) (*models.Message, error) {
	chat, err := s.chatRepo.GetByID(ctx, req.ChatID)
	if err != nil {
		metrics.MessagesSentTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if !chat.Active {
		metrics.MessagesSentTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrChatInactive
	}

	if !chat.HasParticipant(req.SenderID) {
		metrics.MessagesSentTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrNotParticipant
	}

	message := &models.Message{
		ChatID:   req.ChatID,
		SenderID: req.SenderID,
		Content:  req.Content,
		Read:     false,
	}

	if _, err := s.messageRepo.Create(ctx, message); err != nil {
		metrics.MessagesSentTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Int64("chatID", req.ChatID).Msg("Failed to persist message")
		return nil, err
	}

	metrics.MessagesSentTotal.WithLabelValues("accepted").Inc()

	s.logger.Debug().
		Int64("messageID", message.ID).
		Int64("chatID", message.ChatID).
		Int64("senderID", message.SenderID).
		Msg("Message sent")

	// Reload to pick up sender display fields for realtime fan-out
	return s.messageRepo.GetByID(ctx, message.ID)
}

// ListByChat returns the chat history in chronological order
func (s *messageServiceImpl) ListByChat(ctx context.Context, chatID int64, limit, offset int) ([]*models.Message, error) {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}

	return s.messageRepo.GetAll(ctx, &dto.MessageFilter{
		ChatID: &chatID,
		Limit:  limit,
		Offset: offset,
	})
}

// GetAll lists messages matching an arbitrary filter
func (s *messageServiceImpl) GetAll(ctx context.Context, filter *dto.MessageFilter) ([]*models.Message, error) {
	return s.messageRepo.GetAll(ctx, filter)
}

// MarkRead flags a single message as read
func (s *messageServiceImpl) MarkRead(ctx context.Context, id int64) error {
	return s.messageRepo.MarkRead(ctx, id)
}

// MarkAllRead flags every unread message from the other participant as read
// and returns how many changed. Calling it twice in a row returns zero the
// second time.
func (s *messageServiceImpl) MarkAllRead(ctx context.Context, chatID, callerID int64) (int64, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return 0, err
	}

	if !chat.HasParticipant(callerID) {
		return 0, apperrors.ErrNotParticipant
	}

	count, err := s.messageRepo.MarkAllRead(ctx, chatID, callerID)
	if err != nil {
		return 0, err
	}

	s.logger.Debug().
		Int64("chatID", chatID).
		Int64("callerID", callerID).
		Int64("count", count).
		Msg("Chat marked read")

	return count, nil
}

// UnreadCount counts unread messages addressed to the caller in a chat
func (s *messageServiceImpl) UnreadCount(ctx context.Context, chatID, callerID int64) (int64, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return 0, err
	}

	if !chat.HasParticipant(callerID) {
		return 0, apperrors.ErrNotParticipant
	}

	return s.messageRepo.CountUnread(ctx, chatID, callerID)
}

// Delete removes a single message
func (s *messageServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.messageRepo.Delete(ctx, id)
}
