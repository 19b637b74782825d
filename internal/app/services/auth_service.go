package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
	"github.com/circularis/backend/internal/pkg/auth"
	"github.com/circularis/backend/internal/pkg/dberrors"
)

// userStore is the slice of the user repository the auth and user services need
type userStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	GetAll(ctx context.Context, active *bool, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, id int64, fullName, phone, photoURL *string) error
	Deactivate(ctx context.Context, id int64) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   userStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo userStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new account with a hashed password
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        hashed,
		Phone:           req.Phone,
		ProfilePhotoURL: req.ProfilePhotoURL,
		Role:            models.RoleOrdinary,
		IsActive:        true,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// Two concurrent registrations can pass the lookup above
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("email", user.Email).
		Msg("User registered")

	return user, nil
}

// Login verifies credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token")
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		UserID:    user.ID,
		FullName:  user.FullName,
	}, nil
}
