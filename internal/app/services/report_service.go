package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// reportStore is the slice of the report repository the service needs
type reportStore interface {
	Create(ctx context.Context, report *models.Report) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	GetAll(ctx context.Context, filter *dto.ReportFilter) ([]*models.Report, error)
	Update(ctx context.Context, id int64, patch *dto.UpdateReportRequest) error
	Delete(ctx context.Context, id int64) error
}

// ReportService defines the interface for abuse reports
type ReportService interface {
	Create(ctx context.Context, req *dto.CreateReportRequest) (*models.Report, error)
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	GetAll(ctx context.Context, filter *dto.ReportFilter) ([]*models.Report, error)
	Update(ctx context.Context, id int64, req *dto.UpdateReportRequest) (*models.Report, error)
	Delete(ctx context.Context, id int64) error
}

// reportServiceImpl implements ReportService
type reportServiceImpl struct {
	reportRepo   reportStore
	userRepo     userStore
	materialRepo materialReader
	logger       zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo reportStore, userRepo userStore, materialRepo materialReader, logger zerolog.Logger) ReportService {
	return &reportServiceImpl{
		reportRepo:   reportRepo,
		userRepo:     userRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// Create files a report against a user, a material, or both
func (s *reportServiceImpl) Create(ctx context.Context, req *dto.CreateReportRequest) (*models.Report, error) {
	if req.ReportedID == nil && req.MaterialID == nil {
		return nil, apperrors.NewValidationError("a report must target a user or a material")
	}

	exists, err := s.userRepo.ExistsByID(ctx, req.ReporterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	if req.ReportedID != nil {
		exists, err := s.userRepo.ExistsByID(ctx, *req.ReportedID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrUserNotFound
		}
	}

	if req.MaterialID != nil {
		if _, err := s.materialRepo.GetByID(ctx, *req.MaterialID); err != nil {
			return nil, err
		}
	}

	report := &models.Report{
		Description: req.Description,
		Type:        req.Type,
		Resolved:    false,
		ReporterID:  req.ReporterID,
		ReportedID:  req.ReportedID,
		MaterialID:  req.MaterialID,
	}

	if _, err := s.reportRepo.Create(ctx, report); err != nil {
		s.logger.Error().Err(err).Int64("reporterID", req.ReporterID).Msg("Failed to create report")
		return nil, err
	}

	s.logger.Info().
		Int64("reportID", report.ID).
		Int64("reporterID", report.ReporterID).
		Str("type", report.Type).
		Msg("Report filed")

	return report, nil
}

// GetByID retrieves a report
func (s *reportServiceImpl) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

// GetAll lists reports matching the filter
func (s *reportServiceImpl) GetAll(ctx context.Context, filter *dto.ReportFilter) ([]*models.Report, error) {
	return s.reportRepo.GetAll(ctx, filter)
}

// Update patches a report, typically to mark it resolved
func (s *reportServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateReportRequest) (*models.Report, error) {
	if err := s.reportRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.reportRepo.GetByID(ctx, id)
}

// Delete removes a report
func (s *reportServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.reportRepo.Delete(ctx, id)
}
