package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// TradeController handles the trade lifecycle endpoints
type TradeController struct {
	tradeService services.TradeService
}

// NewTradeController creates a new TradeController
func NewTradeController(tradeService services.TradeService) *TradeController {
	return &TradeController{
		tradeService: tradeService,
	}
}

// CreateTrade opens a trade request
func (c *TradeController) CreateTrade(ctx *gin.Context) {
	var req dto.CreateTradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid trade data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	trade, err := c.tradeService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(trade))
}

// GetTradeByID retrieves a trade
func (c *TradeController) GetTradeByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trade, err := c.tradeService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trade))
}

// GetAllTrades lists trades with optional filters
func (c *TradeController) GetAllTrades(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	filter := &dto.TradeFilter{
		RequesterID: queryInt64(ctx, "requesterId"),
		DonorID:     queryInt64(ctx, "donorId"),
		MaterialID:  queryInt64(ctx, "materialId"),
		Completed:   queryBool(ctx, "completed"),
		Limit:       limit,
		Offset:      offset,
	}

	trades, err := c.tradeService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trades))
}

// UpdateTrade patches the notes of an open trade
func (c *TradeController) UpdateTrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid trade data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	trade, err := c.tradeService.UpdateNotes(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trade))
}

// CompleteTrade moves a trade to its terminal state
func (c *TradeController) CompleteTrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trade, err := c.tradeService.Complete(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trade))
}

// CancelTrade removes an open trade
func (c *TradeController) CancelTrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.tradeService.Cancel(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Trade cancelled successfully",
	}))
}
