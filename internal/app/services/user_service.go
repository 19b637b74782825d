package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
)

// UserService defines the interface for user profile operations
type UserService interface {
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	GetAll(ctx context.Context, active *bool, limit, offset int) ([]*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo userStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo userStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetByID retrieves a user profile
func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// GetAll lists user profiles
func (s *userServiceImpl) GetAll(ctx context.Context, active *bool, limit, offset int) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx, active, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	return responses, nil
}

// Update applies a partial profile update and returns the fresh profile
func (s *userServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := s.userRepo.Update(ctx, id, req.FullName, req.Phone, req.ProfilePhotoURL); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", id).Msg("User profile updated")

	return s.GetByID(ctx, id)
}

// Deactivate disables the account; the row is kept for history
func (s *userServiceImpl) Deactivate(ctx context.Context, id int64) error {
	if err := s.userRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", id).Msg("User deactivated")
	return nil
}

// toUserResponse strips the password hash from the model
func toUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:              user.ID,
		FullName:        user.FullName,
		Email:           user.Email,
		Phone:           user.Phone,
		ProfilePhotoURL: user.ProfilePhotoURL,
		Role:            string(user.Role),
		IsActive:        user.IsActive,
		RankingPoints:   user.RankingPoints,
		CreatedAt:       user.CreatedAt,
	}
}
