package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// ReportController handles abuse report endpoints
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// CreateReport files a new report
func (c *ReportController) CreateReport(ctx *gin.Context) {
	var req dto.CreateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid report data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	report, err := c.reportService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(report))
}

// GetReportByID retrieves a report
func (c *ReportController) GetReportByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	report, err := c.reportService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// GetAllReports lists reports with optional filters
func (c *ReportController) GetAllReports(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	filter := &dto.ReportFilter{
		Type:       queryString(ctx, "type"),
		Resolved:   queryBool(ctx, "resolved"),
		ReporterID: queryInt64(ctx, "reporterId"),
		Limit:      limit,
		Offset:     offset,
	}

	reports, err := c.reportService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reports))
}

// UpdateReport patches a report, typically to resolve it
func (c *ReportController) UpdateReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid report data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	report, err := c.reportService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// DeleteReport removes a report
func (c *ReportController) DeleteReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reportService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Report deleted successfully",
	}))
}
