package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// notificationStore is the slice of the notification repository the service needs
type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	GetAll(ctx context.Context, filter *dto.NotificationFilter) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllReadForUser(ctx context.Context, userID int64) (int64, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// realtimePusher delivers events to a user's open gateway connections
type realtimePusher interface {
	SendToUser(userID int64, event string, payload interface{})
}

// NotificationService defines the interface for user notifications
type NotificationService interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error)
	Notify(ctx context.Context, userID int64, title, message, notificationType string) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	GetAll(ctx context.Context, filter *dto.NotificationFilter) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllReadForUser(ctx context.Context, userID int64) (int64, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	notificationRepo notificationStore
	userRepo         userStore
	pusher           realtimePusher
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService. The pusher may
// be nil, in which case notifications are stored but not pushed.
func NewNotificationService(notificationRepo notificationStore, userRepo userStore, pusher realtimePusher, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		logger:           logger,
	}
}

// Create stores a notification and pushes it to the recipient's open
// gateway connections, if any.
func (s *notificationServiceImpl) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	exists, err := s.userRepo.ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	notification := &models.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Read:    false,
		UserID:  req.UserID,
	}

	if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Int64("userID", req.UserID).Msg("Failed to create notification")
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.SendToUser(notification.UserID, "new_notification", notification)
	}

	return notification, nil
}

// Notify is a convenience wrapper used by other services
func (s *notificationServiceImpl) Notify(ctx context.Context, userID int64, title, message, notificationType string) error {
	_, err := s.Create(ctx, &dto.CreateNotificationRequest{
		Title:   title,
		Message: message,
		Type:    notificationType,
		UserID:  userID,
	})
	return err
}

// GetByID retrieves a notification
func (s *notificationServiceImpl) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	return s.notificationRepo.GetByID(ctx, id)
}

// GetAll lists notifications matching the filter
func (s *notificationServiceImpl) GetAll(ctx context.Context, filter *dto.NotificationFilter) ([]*models.Notification, error) {
	return s.notificationRepo.GetAll(ctx, filter)
}

// MarkRead flags a single notification as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id int64) error {
	return s.notificationRepo.MarkRead(ctx, id)
}

// MarkAllReadForUser flags all of a user's notifications as read
func (s *notificationServiceImpl) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.MarkAllReadForUser(ctx, userID)
}

// CountUnreadForUser counts a user's unread notifications
func (s *notificationServiceImpl) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperrors.ErrUserNotFound
	}

	return s.notificationRepo.CountUnreadForUser(ctx, userID)
}

// Delete removes a notification
func (s *notificationServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.notificationRepo.Delete(ctx, id)
}
