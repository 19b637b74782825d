package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// RecommendationController handles recommendation endpoints
type RecommendationController struct {
	recommendationService services.RecommendationService
}

// NewRecommendationController creates a new RecommendationController
func NewRecommendationController(recommendationService services.RecommendationService) *RecommendationController {
	return &RecommendationController{
		recommendationService: recommendationService,
	}
}

// CreateRecommendation stores a manual recommendation
func (c *RecommendationController) CreateRecommendation(ctx *gin.Context) {
	var req dto.CreateRecommendationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid recommendation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	rec, err := c.recommendationService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(rec))
}

// GetRecommendationByID retrieves a single recommendation
func (c *RecommendationController) GetRecommendationByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	rec, err := c.recommendationService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// GetAllRecommendations lists recommendations with optional filters
func (c *RecommendationController) GetAllRecommendations(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	filter := &dto.RecommendationFilter{
		UserID:     queryInt64(ctx, "userId"),
		MaterialID: queryInt64(ctx, "materialId"),
		Limit:      limit,
		Offset:     offset,
	}

	recs, err := c.recommendationService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(recs))
}

// GenerateRecommendations creates recommendations for unseen materials
func (c *RecommendationController) GenerateRecommendations(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	response, err := c.recommendationService.GenerateForUser(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateRecommendation patches a recommendation
func (c *RecommendationController) UpdateRecommendation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRecommendationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid recommendation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	rec, err := c.recommendationService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// DeleteRecommendation removes a recommendation
func (c *RecommendationController) DeleteRecommendation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.recommendationService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Recommendation deleted successfully",
	}))
}
