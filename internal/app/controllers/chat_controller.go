package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// ChatController handles the chat directory endpoints
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// CreateChat returns the chat for a pair of users, creating it when needed.
// A fresh chat answers 201, a pre-existing one 200.
func (c *ChatController) CreateChat(ctx *gin.Context) {
	var req dto.CreateChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid chat data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	chat, preExisting, err := c.chatService.GetOrCreate(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusCreated
	message := "Chat created successfully"
	if preExisting {
		status = http.StatusOK
		message = "Chat already exists"
	}

	ctx.JSON(status, dto.NewSuccessResponse(dto.ChatCreatedResponse{
		ID:          chat.ID,
		PreExisting: preExisting,
		Message:     message,
	}))
}

// GetChatByID retrieves a chat with participant details
func (c *ChatController) GetChatByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	chat, err := c.chatService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(chat))
}

// GetAllChats lists chats with optional filters
func (c *ChatController) GetAllChats(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	filter := &dto.ChatFilter{
		ParticipantID: queryInt64(ctx, "userId"),
		Active:        queryBool(ctx, "active"),
		Limit:         limit,
		Offset:        offset,
	}

	chats, err := c.chatService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(chats))
}

// UpdateChat toggles the active flag
func (c *ChatController) UpdateChat(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Active == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid chat data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.chatService.SetActive(ctx, id, *req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Chat updated successfully",
	}))
}

// DeactivateChat closes a chat for new messages
func (c *ChatController) DeactivateChat(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.chatService.SetActive(ctx, id, false); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Chat deactivated successfully",
	}))
}

// DeleteChat removes a chat and its message history
func (c *ChatController) DeleteChat(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.chatService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Chat deleted successfully",
	}))
}
