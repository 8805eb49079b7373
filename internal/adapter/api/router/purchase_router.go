package router

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func SetupPurchaseRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	purchaseHandler := handler.GetPurchaseHandler()
	ratingHandler := handler.GetRatingHandler()

	purchases := e.Group("/v1/purchases")
	purchases.Use(authMiddleware.Authenticate)

	purchases.POST("", purchaseHandler.Open)
	purchases.GET("", purchaseHandler.List)
	purchases.GET("/code/:code", purchaseHandler.GetByCode)
	purchases.GET("/:id", purchaseHandler.GetByID)
	purchases.GET("/:id/logs", purchaseHandler.GetLogs)
	purchases.POST("/:id/confirm", purchaseHandler.Confirm)
	purchases.POST("/:id/complete", purchaseHandler.Complete)
	purchases.POST("/:id/cancel", purchaseHandler.Cancel)
	purchases.GET("/:id/rating-status", ratingHandler.Status)
}
