package router

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func SetupReportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, moderatorMiddleware *middleware.ModeratorMiddleware) {
	reportHandler := handler.GetReportHandler()

	reports := e.Group("/v1/reports")
	reports.Use(authMiddleware.Authenticate)

	reports.POST("", reportHandler.File)
	reports.GET("/:id", reportHandler.GetByID)

	moderation := e.Group("/v1/moderation/reports")
	moderation.Use(authMiddleware.Authenticate)
	moderation.Use(moderatorMiddleware.ModeratorOnly)

	moderation.GET("", reportHandler.List)
	moderation.POST("/:id/assign", reportHandler.Assign)
	moderation.POST("/:id/resolve", reportHandler.Resolve)
	moderation.POST("/:id/reject", reportHandler.Reject)
}
