package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// MessageController handles chat message endpoints
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

// SendMessage persists a message in a chat
func (c *MessageController) SendMessage(ctx *gin.Context) {
	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid message data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	message, err := c.messageService.Send(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// GetChatMessages lists a chat's history in chronological order
func (c *MessageController) GetChatMessages(ctx *gin.Context) {
	chatID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	limit, offset := helpers.ParseLimitOffset(ctx)

	messages, err := c.messageService.ListByChat(ctx, chatID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// MarkMessageRead flags a single message as read
func (c *MessageController) MarkMessageRead(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.messageService.MarkRead(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Message marked as read",
	}))
}

// MarkAllRead flags every unread message from the other participant as read
func (c *MessageController) MarkAllRead(ctx *gin.Context) {
	chatID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MarkAllReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	count, err := c.messageService.MarkAllRead(ctx, chatID, req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{
		Total:   count,
		Message: "Messages marked as read",
	}))
}

// GetUnreadCount counts unread messages addressed to the caller
func (c *MessageController) GetUnreadCount(ctx *gin.Context) {
	chatID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID := queryInt64(ctx, "userId")
	if userID == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing userId parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	count, err := c.messageService.UnreadCount(ctx, chatID, *userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{
		Total: count,
	}))
}

// DeleteMessage removes a single message
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.messageService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Message deleted successfully",
	}))
}
