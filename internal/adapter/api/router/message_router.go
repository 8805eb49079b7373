package router

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	messageHandler := handler.GetMessageHandler()

	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)

	messages.POST("", messageHandler.Send)
	messages.POST("/offers", messageHandler.SendOffer)
	messages.POST("/offers/respond", messageHandler.RespondToOffer)
	messages.POST("/:id/read", messageHandler.MarkRead)
	messages.POST("/:id/unread", messageHandler.MarkUnread)
	messages.GET("/unread-count", messageHandler.UnreadCount)

	threads := e.Group("/v1/threads")
	threads.Use(authMiddleware.Authenticate)

	threads.GET("", messageHandler.ListThreads)
	threads.GET("/with/:userId", messageHandler.ListConversation)
}
