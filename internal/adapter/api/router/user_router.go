package router

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()
	ratingHandler := handler.GetRatingHandler()

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)

	me.GET("", userHandler.GetProfile)
	me.PATCH("", userHandler.UpdateProfile)
	me.GET("/stats", userHandler.GetStats)

	// Public profile routes
	e.GET("/v1/users/:id", userHandler.GetPublicProfile)
	e.GET("/v1/users/:id/ratings", ratingHandler.ListForUser)
	e.GET("/v1/users/:id/ratings/summary", ratingHandler.Summary)
}
