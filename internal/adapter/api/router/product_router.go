package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authClient *auth.Client) {
	productHandler := handler.GetProductHandler()
	commentHandler := handler.GetCommentHandler()

	// Public marketplace
	e.GET("/v1/products", productHandler.List)
	e.GET("/v1/products/search", productHandler.Search)
	e.GET("/v1/products/:id/comments", commentHandler.ListByProduct)

	// Detail is public but drafts stay visible to their owner only, so the
	// optional auth runs here.
	detail := e.Group("/v1/products")
	detail.Use(VerifyToken(authClient))
	detail.GET("/:id", productHandler.GetByID)

	// Seller's own listings
	mine := e.Group("/v1/my-products")
	mine.Use(authMiddleware.Authenticate)

	mine.GET("", productHandler.ListMine)
	mine.POST("", productHandler.Create)
	mine.PATCH("/:id", productHandler.Update)
	mine.DELETE("/:id", productHandler.Remove)
	mine.POST("/:id/publish", productHandler.Publish)
	mine.POST("/:id/reserve", productHandler.Reserve)
	mine.POST("/:id/release", productHandler.Release)
	mine.POST("/:id/images", productHandler.UploadImage)
	mine.DELETE("/:id/images/:imageId", productHandler.RemoveImage)

	// Comments
	comments := e.Group("/v1/products")
	comments.Use(authMiddleware.Authenticate)
	comments.POST("/:id/comments", commentHandler.Create)

	commentDelete := e.Group("/v1/comments")
	commentDelete.Use(authMiddleware.Authenticate)
	commentDelete.DELETE("/:commentId", commentHandler.Delete)
}
