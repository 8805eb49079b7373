package router

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func SetupRatingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	ratingHandler := handler.GetRatingHandler()

	ratings := e.Group("/v1/ratings")
	ratings.Use(authMiddleware.Authenticate)

	ratings.POST("", ratingHandler.Submit)
}
