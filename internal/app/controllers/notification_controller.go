package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/middleware"
	"github.com/circularis/backend/internal/pkg/helpers"
)

// NotificationController handles notification endpoints
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// CreateNotification stores and pushes a notification
func (c *NotificationController) CreateNotification(ctx *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid notification data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	notification, err := c.notificationService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(notification))
}

// GetNotificationByID retrieves a single notification
func (c *NotificationController) GetNotificationByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	notification, err := c.notificationService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notification))
}

// GetAllNotifications lists notifications with optional filters
func (c *NotificationController) GetAllNotifications(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	filter := &dto.NotificationFilter{
		UserID: queryInt64(ctx, "userId"),
		Type:   queryString(ctx, "type"),
		Read:   queryBool(ctx, "read"),
		Limit:  limit,
		Offset: offset,
	}

	notifications, err := c.notificationService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notifications))
}

// MarkNotificationRead flags a single notification as read
func (c *NotificationController) MarkNotificationRead(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Notification marked as read",
	}))
}

// MarkAllNotificationsRead flags all of a user's notifications as read
func (c *NotificationController) MarkAllNotificationsRead(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	count, err := c.notificationService.MarkAllReadForUser(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{
		Total:   count,
		Message: "Notifications marked as read",
	}))
}

// GetUnreadNotificationCount counts a user's unread notifications
func (c *NotificationController) GetUnreadNotificationCount(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	count, err := c.notificationService.CountUnreadForUser(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{
		Total: count,
	}))
}

// DeleteNotification removes a notification
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Notification deleted successfully",
	}))
}
