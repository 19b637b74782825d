package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// recommendationStore is the slice of the recommendation repository the service needs
type recommendationStore interface {
	Create(ctx context.Context, rec *models.Recommendation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Recommendation, error)
	GetAll(ctx context.Context, filter *dto.RecommendationFilter) ([]*models.Recommendation, error)
	FindUnseenMaterials(ctx context.Context, userID int64) ([]*models.Material, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRecommendationRequest) error
	Delete(ctx context.Context, id int64) error
}

// RecommendationService defines the interface for material recommendations
type RecommendationService interface {
	Create(ctx context.Context, req *dto.CreateRecommendationRequest) (*models.Recommendation, error)
	GetByID(ctx context.Context, id int64) (*models.Recommendation, error)
	GetAll(ctx context.Context, filter *dto.RecommendationFilter) ([]*models.Recommendation, error)
	GenerateForUser(ctx context.Context, userID int64) (*dto.GenerateRecommendationsResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRecommendationRequest) (*models.Recommendation, error)
	Delete(ctx context.Context, id int64) error
}

// recommendationServiceImpl implements RecommendationService
type recommendationServiceImpl struct {
	recommendationRepo recommendationStore
	userRepo           userStore
	materialRepo       materialReader
	logger             zerolog.Logger
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(recommendationRepo recommendationStore, userRepo userStore, materialRepo materialReader, logger zerolog.Logger) RecommendationService {
	return &recommendationServiceImpl{
		recommendationRepo: recommendationRepo,
		userRepo:           userRepo,
		materialRepo:       materialRepo,
		logger:             logger,
	}
}

// Create stores a manual recommendation
func (s *recommendationServiceImpl) Create(ctx context.Context, req *dto.CreateRecommendationRequest) (*models.Recommendation, error) {
	exists, err := s.userRepo.ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	if _, err := s.materialRepo.GetByID(ctx, req.MaterialID); err != nil {
		return nil, err
	}

	rec := &models.Recommendation{
		Reason:     req.Reason,
		UserID:     req.UserID,
		MaterialID: req.MaterialID,
	}

	if _, err := s.recommendationRepo.Create(ctx, rec); err != nil {
		s.logger.Error().Err(err).Int64("userID", req.UserID).Msg("Failed to create recommendation")
		return nil, err
	}

	return rec, nil
}

// GetByID retrieves a recommendation
func (s *recommendationServiceImpl) GetByID(ctx context.Context, id int64) (*models.Recommendation, error) {
	return s.recommendationRepo.GetByID(ctx, id)
}

// GetAll lists recommendations matching the filter
func (s *recommendationServiceImpl) GetAll(ctx context.Context, filter *dto.RecommendationFilter) ([]*models.Recommendation, error) {
	return s.recommendationRepo.GetAll(ctx, filter)
}

// GenerateForUser creates recommendations for available materials the user
// does not own and has not been recommended before. Re-running it only adds
// materials listed since the previous run.
func (s *recommendationServiceImpl) GenerateForUser(ctx context.Context, userID int64) (*dto.GenerateRecommendationsResponse, error) {
	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	materials, err := s.recommendationRepo.FindUnseenMaterials(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(materials))
	for _, material := range materials {
		reason := "Available for trade"
		if material.Objective == models.ObjectiveDonation {
			reason = "Available for donation"
		}

		rec := &models.Recommendation{
			Reason:     reason,
			UserID:     userID,
			MaterialID: material.ID,
		}

		if _, err := s.recommendationRepo.Create(ctx, rec); err != nil {
			s.logger.Error().Err(err).
				Int64("userID", userID).
				Int64("materialID", material.ID).
				Msg("Failed to store generated recommendation")
			return nil, err
		}
		ids = append(ids, rec.ID)
	}

	s.logger.Info().
		Int64("userID", userID).
		Int("count", len(ids)).
		Msg("Recommendations generated")

	return &dto.GenerateRecommendationsResponse{
		Total:   len(ids),
		IDs:     ids,
		Message: "Recommendations generated",
	}, nil
}

// Update patches a recommendation's reason
func (s *recommendationServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateRecommendationRequest) (*models.Recommendation, error) {
	if err := s.recommendationRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.recommendationRepo.GetByID(ctx, id)
}

// Delete removes a recommendation
func (s *recommendationServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.recommendationRepo.Delete(ctx, id)
}
