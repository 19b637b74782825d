package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// MaterialController handles material catalog operations
type MaterialController struct {
	materialService services.MaterialService
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService services.MaterialService) *MaterialController {
	return &MaterialController{
		materialService: materialService,
	}
}

// CreateMaterial registers a new material
func (c *MaterialController) CreateMaterial(ctx *gin.Context) {
	var req dto.CreateMaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid material data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	material, err := c.materialService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(material))
}

// GetMaterialByID retrieves a material
func (c *MaterialController) GetMaterialByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	material, err := c.materialService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(material))
}

// GetAllMaterials lists materials with optional filters
func (c *MaterialController) GetAllMaterials(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	filter := &dto.MaterialFilter{
		Type:      queryString(ctx, "type"),
		Category:  queryString(ctx, "category"),
		Objective: queryString(ctx, "objective"),
		Available: queryBool(ctx, "available"),
		OwnerID:   queryInt64(ctx, "ownerId"),
		Location:  queryString(ctx, "location"),
		Search:    queryString(ctx, "search"),
		Limit:     limit,
		Offset:    offset,
	}

	materials, err := c.materialService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(materials))
}

// UpdateMaterial applies a partial update
func (c *MaterialController) UpdateMaterial(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid material data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	material, err := c.materialService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(material))
}

// SetMaterialAvailability toggles the availability flag
func (c *MaterialController) SetMaterialAvailability(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Available == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid availability data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.materialService.SetAvailability(ctx, id, *req.Available); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Material availability updated",
	}))
}

// DeleteMaterial removes a material without trade history
func (c *MaterialController) DeleteMaterial(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.materialService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Material deleted successfully",
	}))
}
