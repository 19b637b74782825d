package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// chatStore is the slice of the chat repository the services need
type chatStore interface {
	Create(ctx context.Context, chat *models.Chat) (int64, error)
	FindByPair(ctx context.Context, userA, userB int64) (*models.Chat, error)
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	GetAll(ctx context.Context, filter *dto.ChatFilter) ([]*models.Chat, error)
	SetActive(ctx context.Context, id int64, active bool) error
	DeleteWithMessages(ctx context.Context, id int64) error
}

// ChatService defines the interface for the chat directory
type ChatService interface {
	GetOrCreate(ctx context.Context, req *dto.CreateChatRequest) (*models.Chat, bool, error)
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	GetAll(ctx context.Context, filter *dto.ChatFilter) ([]*models.Chat, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	chatRepo chatStore
	userRepo userStore
	logger   zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo chatStore, userRepo userStore, logger zerolog.Logger) ChatService {
	return &chatServiceImpl{
		chatRepo: chatRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetOrCreate returns the chat between two users, creating it when none
// exists. The pair is unordered: (a, b) and (b, a) resolve to the same chat.
// The boolean reports whether the chat already existed.
func (s *chatServiceImpl) GetOrCreate(ctx context.Context, req *dto.CreateChatRequest) (*models.Chat, bool, error) {
	if req.UserAID == req.UserBID {
		return nil, false, apperrors.ErrSelfChat
	}

	for _, userID := range []int64{req.UserAID, req.UserBID} {
		exists, err := s.userRepo.ExistsByID(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if !exists {
			return nil, false, apperrors.ErrUserNotFound
		}
	}

	existing, err := s.chatRepo.FindByPair(ctx, req.UserAID, req.UserBID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, apperrors.ErrChatNotFound) {
		return nil, false, err
	}

	chat := &models.Chat{
		UserAID: req.UserAID,
		UserBID: req.UserBID,
		Active:  true,
	}

	if _, err := s.chatRepo.Create(ctx, chat); err != nil {
		s.logger.Error().Err(err).
			Int64("userAID", req.UserAID).
			Int64("userBID", req.UserBID).
			Msg("Failed to create chat")
		return nil, false, err
	}

	s.logger.Info().
		Int64("chatID", chat.ID).
		Int64("userAID", chat.UserAID).
		Int64("userBID", chat.UserBID).
		Msg("Chat created")

	return chat, false, nil
}

// GetByID retrieves a chat with participant display fields
func (s *chatServiceImpl) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	return s.chatRepo.GetByID(ctx, id)
}

// GetAll lists chats matching the filter, most recently active first
func (s *chatServiceImpl) GetAll(ctx context.Context, filter *dto.ChatFilter) ([]*models.Chat, error) {
	return s.chatRepo.GetAll(ctx, filter)
}

// SetActive toggles whether the chat accepts new messages
func (s *chatServiceImpl) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.chatRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.logger.Info().
		Int64("chatID", id).
		Bool("active", active).
		Msg("Chat active flag changed")

	return nil
}

// Delete removes the chat and its message history
func (s *chatServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.chatRepo.DeleteWithMessages(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("chatID", id).Msg("Chat deleted")
	return nil
}
