package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/controllers"
	"github.com/circularis/backend/internal/middleware"
)

// SetupRouter registers every API route on the given engine
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	materialController *controllers.MaterialController,
	tradeController *controllers.TradeController,
	chatController *controllers.ChatController,
	messageController *controllers.MessageController,
	notificationController *controllers.NotificationController,
	reportController *controllers.ReportController,
	recommendationController *controllers.RecommendationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// Public endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(authMiddleware.JWTAuth())

	users := protected.Group("/users")
	{
		users.GET("", userController.GetAllUsers)
		users.GET("/:id", userController.GetUserByID)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeactivateUser)
		users.PATCH("/:id/notifications/read-all", notificationController.MarkAllNotificationsRead)
		users.GET("/:id/notifications/unread-count", notificationController.GetUnreadNotificationCount)
	}

	materials := protected.Group("/materials")
	{
		materials.POST("", materialController.CreateMaterial)
		materials.GET("", materialController.GetAllMaterials)
		materials.GET("/:id", materialController.GetMaterialByID)
		materials.PUT("/:id", materialController.UpdateMaterial)
		materials.PATCH("/:id/availability", materialController.SetMaterialAvailability)
		materials.DELETE("/:id", materialController.DeleteMaterial)
	}

	trades := protected.Group("/trades")
	{
		trades.POST("", tradeController.CreateTrade)
		trades.GET("", tradeController.GetAllTrades)
		trades.GET("/:id", tradeController.GetTradeByID)
		trades.PUT("/:id", tradeController.UpdateTrade)
		trades.PATCH("/:id/complete", tradeController.CompleteTrade)
		trades.DELETE("/:id", tradeController.CancelTrade)
	}

	chats := protected.Group("/chats")
	{
		chats.POST("", chatController.CreateChat)
		chats.GET("", chatController.GetAllChats)
		chats.GET("/:id", chatController.GetChatByID)
		chats.PUT("/:id", chatController.UpdateChat)
		chats.PATCH("/:id/deactivate", chatController.DeactivateChat)
		chats.DELETE("/:id", chatController.DeleteChat)
		chats.GET("/:id/messages", messageController.GetChatMessages)
		chats.PATCH("/:id/read-all", messageController.MarkAllRead)
		chats.GET("/:id/unread-count", messageController.GetUnreadCount)
	}

	messages := protected.Group("/messages")
	{
		messages.POST("", messageController.SendMessage)
		messages.PATCH("/:id/read", messageController.MarkMessageRead)
		messages.DELETE("/:id", messageController.DeleteMessage)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.POST("", notificationController.CreateNotification)
		notifications.GET("", notificationController.GetAllNotifications)
		notifications.GET("/:id", notificationController.GetNotificationByID)
		notifications.PATCH("/:id/read", notificationController.MarkNotificationRead)
		notifications.DELETE("/:id", notificationController.DeleteNotification)
	}

	reports := protected.Group("/reports")
	{
		reports.POST("", reportController.CreateReport)

		// Report triage is an administrative concern
		admin := reports.Group("")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.GET("", reportController.GetAllReports)
			admin.GET("/:id", reportController.GetReportByID)
			admin.PUT("/:id", reportController.UpdateReport)
			admin.DELETE("/:id", reportController.DeleteReport)
		}
	}

	recommendations := protected.Group("/recommendations")
	{
		recommendations.POST("", recommendationController.CreateRecommendation)
		recommendations.GET("", recommendationController.GetAllRecommendations)
		recommendations.GET("/:id", recommendationController.GetRecommendationByID)
		recommendations.PUT("/:id", recommendationController.UpdateRecommendation)
		recommendations.POST("/generate/:userId", recommendationController.GenerateRecommendations)
		recommendations.DELETE("/:id", recommendationController.DeleteRecommendation)
	}
}
