package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// materialStore is the slice of the material repository the services need
type materialStore interface {
	Create(ctx context.Context, material *models.Material) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	GetAll(ctx context.Context, filter *dto.MaterialFilter) ([]*models.Material, error)
	Update(ctx context.Context, id int64, patch *dto.UpdateMaterialRequest) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}

// tradeCounter reports how many trades reference a material
type tradeCounter interface {
	CountByMaterial(ctx context.Context, materialID int64) (int64, error)
}

// MaterialService defines the interface for material catalog operations
type MaterialService interface {
	Create(ctx context.Context, req *dto.CreateMaterialRequest) (*models.Material, error)
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	GetAll(ctx context.Context, filter *dto.MaterialFilter) ([]*models.Material, error)
	Update(ctx context.Context, id int64, req *dto.UpdateMaterialRequest) (*models.Material, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}

// materialServiceImpl implements MaterialService
type materialServiceImpl struct {
	materialRepo materialStore
	userRepo     userStore
	tradeRepo    tradeCounter
	logger       zerolog.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(materialRepo materialStore, userRepo userStore, tradeRepo tradeCounter, logger zerolog.Logger) MaterialService {
	return &materialServiceImpl{
		materialRepo: materialRepo,
		userRepo:     userRepo,
		tradeRepo:    tradeRepo,
		logger:       logger,
	}
}

// Create registers a new material for an existing owner. Materials start
// available and default to the donation objective.
func (s *materialServiceImpl) Create(ctx context.Context, req *dto.CreateMaterialRequest) (*models.Material, error) {
	exists, err := s.userRepo.ExistsByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	objective := models.ObjectiveDonation
	if req.Objective != nil {
		switch models.MaterialObjective(*req.Objective) {
		case models.ObjectiveTrade, models.ObjectiveDonation:
			objective = models.MaterialObjective(*req.Objective)
		default:
			return nil, apperrors.NewValidationError("objective must be 'trade' or 'donation'")
		}
	}

	material := &models.Material{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Condition:   req.Condition,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Objective:   objective,
		Location:    req.Location,
		Available:   true,
		OwnerID:     req.OwnerID,
	}

	if _, err := s.materialRepo.Create(ctx, material); err != nil {
		s.logger.Error().Err(err).Int64("ownerID", req.OwnerID).Msg("Failed to create material")
		return nil, err
	}

	s.logger.Info().
		Int64("materialID", material.ID).
		Int64("ownerID", material.OwnerID).
		Msg("Material registered")

	return material, nil
}

// GetByID retrieves a material with its owner display fields
func (s *materialServiceImpl) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	return s.materialRepo.GetByID(ctx, id)
}

// GetAll lists materials matching the filter
func (s *materialServiceImpl) GetAll(ctx context.Context, filter *dto.MaterialFilter) ([]*models.Material, error) {
	return s.materialRepo.GetAll(ctx, filter)
}

// Update applies a partial update and returns the fresh material
func (s *materialServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateMaterialRequest) (*models.Material, error) {
	if req.Objective != nil {
		switch models.MaterialObjective(*req.Objective) {
		case models.ObjectiveTrade, models.ObjectiveDonation:
		default:
			return nil, apperrors.NewValidationError("objective must be 'trade' or 'donation'")
		}
	}

	if err := s.materialRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.materialRepo.GetByID(ctx, id)
}

// SetAvailability toggles whether a material can receive trade requests
func (s *materialServiceImpl) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.materialRepo.SetAvailability(ctx, id, available); err != nil {
		return err
	}

	s.logger.Info().
		Int64("materialID", id).
		Bool("available", available).
		Msg("Material availability changed")

	return nil
}

// Delete removes a material that has no trade history
func (s *materialServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.materialRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.tradeRepo.CountByMaterial(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrMaterialHasTrades
	}

	if err := s.materialRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("materialID", id).Msg("Material deleted")
	return nil
}
