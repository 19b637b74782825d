package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
	"github.com/circularis/backend/internal/pkg/dberrors"
	"github.com/circularis/backend/internal/pkg/metrics"
)

// tradeStore is the slice of the trade repository the service needs
type tradeStore interface {
	Create(ctx context.Context, trade *models.Trade) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Trade, error)
	GetAll(ctx context.Context, filter *dto.TradeFilter) ([]*models.Trade, error)
	UpdateNotes(ctx context.Context, id int64, notes *string) error
	Complete(ctx context.Context, tradeID, materialID int64) error
	Delete(ctx context.Context, id int64) error
}

// materialReader looks up materials for trade validation
type materialReader interface {
	GetByID(ctx context.Context, id int64) (*models.Material, error)
}

// notifier delivers best-effort notifications to users
type notifier interface {
	Notify(ctx context.Context, userID int64, title, message, notificationType string) error
}

// TradeService defines the interface for the trade lifecycle
type TradeService interface {
	Create(ctx context.Context, req *dto.CreateTradeRequest) (*models.Trade, error)
	GetByID(ctx context.Context, id int64) (*models.Trade, error)
	GetAll(ctx context.Context, filter *dto.TradeFilter) ([]*models.Trade, error)
	UpdateNotes(ctx context.Context, id int64, req *dto.UpdateTradeRequest) (*models.Trade, error)
	Complete(ctx context.Context, id int64) (*models.Trade, error)
	Cancel(ctx context.Context, id int64) error
}

// tradeServiceImpl implements TradeService
type tradeServiceImpl struct {
	tradeRepo     tradeStore
	materialRepo  materialReader
	notifications notifier
	logger        zerolog.Logger
}

// NewTradeService creates a new TradeService
func NewTradeService(tradeRepo tradeStore, materialRepo materialReader, notifications notifier, logger zerolog.Logger) TradeService {
	return &tradeServiceImpl{
		tradeRepo:     tradeRepo,
		materialRepo:  materialRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Create opens a trade request after validating the parties and the material.
// Checks run in a fixed order: self-trade, material existence, availability,
// donor ownership. The first failure wins.
func (s *tradeServiceImpl) Create(ctx context.Context, req *dto.CreateTradeRequest) (*models.Trade, error) {
	if req.RequesterID == req.DonorID {
		metrics.TradesRequestedTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrSelfTrade
	}

	material, err := s.materialRepo.GetByID(ctx, req.MaterialID)
	if err != nil {
		metrics.TradesRequestedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if !material.Available {
		metrics.TradesRequestedTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrMaterialUnavailable
	}

	if material.OwnerID != req.DonorID {
		metrics.TradesRequestedTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrDonorNotOwner
	}

	trade := &models.Trade{
		MaterialID:  req.MaterialID,
		RequesterID: req.RequesterID,
		DonorID:     req.DonorID,
		Notes:       req.Notes,
	}

	if _, err := s.tradeRepo.Create(ctx, trade); err != nil {
		metrics.TradesRequestedTotal.WithLabelValues("error").Inc()
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("materialID", req.MaterialID).Msg("Failed to create trade")
		return nil, err
	}

	metrics.TradesRequestedTotal.WithLabelValues("accepted").Inc()

	s.logger.Info().
		Int64("tradeID", trade.ID).
		Int64("materialID", trade.MaterialID).
		Int64("requesterID", trade.RequesterID).
		Int64("donorID", trade.DonorID).
		Msg("Trade requested")

	s.notifyBestEffort(ctx, trade.DonorID,
		"New trade request",
		"Someone requested one of your materials: "+material.Title,
		"trade_requested")

	return trade, nil
}

// GetByID retrieves a trade with its display fields
func (s *tradeServiceImpl) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	return s.tradeRepo.GetByID(ctx, id)
}

// GetAll lists trades matching the filter
func (s *tradeServiceImpl) GetAll(ctx context.Context, filter *dto.TradeFilter) ([]*models.Trade, error) {
	return s.tradeRepo.GetAll(ctx, filter)
}

// UpdateNotes patches the free-form notes of an open trade
func (s *tradeServiceImpl) UpdateNotes(ctx context.Context, id int64, req *dto.UpdateTradeRequest) (*models.Trade, error) {
	if req.Notes == nil {
		return nil, apperrors.ErrEmptyUpdate
	}

	trade, err := s.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if trade.IsCompleted() {
		return nil, apperrors.ErrTradeCompleted
	}

	if err := s.tradeRepo.UpdateNotes(ctx, id, req.Notes); err != nil {
		return nil, err
	}

	return s.tradeRepo.GetByID(ctx, id)
}

// Complete moves the trade to its terminal state and takes the material off
// the catalog. Completing an already completed trade is a conflict.
func (s *tradeServiceImpl) Complete(ctx context.Context, id int64) (*models.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if trade.IsCompleted() {
		return nil, apperrors.ErrTradeCompleted
	}

	if err := s.tradeRepo.Complete(ctx, trade.ID, trade.MaterialID); err != nil {
		return nil, err
	}

	metrics.TradesCompletedTotal.Inc()

	s.logger.Info().
		Int64("tradeID", trade.ID).
		Int64("materialID", trade.MaterialID).
		Msg("Trade completed")

	s.notifyBestEffort(ctx, trade.RequesterID,
		"Trade completed",
		"Your trade request has been completed by the donor",
		"trade_completed")

	return s.tradeRepo.GetByID(ctx, id)
}

// Cancel removes an open trade. Completed trades are history and stay.
func (s *tradeServiceImpl) Cancel(ctx context.Context, id int64) error {
	trade, err := s.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if trade.IsCompleted() {
		return apperrors.ErrTradeCompleted
	}

	if err := s.tradeRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("tradeID", id).Msg("Trade cancelled")
	return nil
}

// notifyBestEffort delivers a notification without failing the operation
func (s *tradeServiceImpl) notifyBestEffort(ctx context.Context, userID int64, title, message, notificationType string) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(ctx, userID, title, message, notificationType); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to deliver notification")
	}
}
