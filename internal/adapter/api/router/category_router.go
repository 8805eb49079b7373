package router

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
)

func SetupCategoryRouter(e *echo.Echo) {
	categoryHandler := handler.GetCategoryHandler()

	e.GET("/v1/categories", categoryHandler.List)
	e.GET("/v1/categories/:id", categoryHandler.GetByID)
	e.GET("/v1/tags", categoryHandler.ListTags)
}
