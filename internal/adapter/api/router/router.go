package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"renaix/internal/adapter/api/handler"
	"renaix/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, moderatorMiddleware *middleware.ModeratorMiddleware, authClient *auth.Client, wsHandler *handler.WebSocketHandler) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupCategoryRouter(e)
	SetupProductRouter(e, authMiddleware, authClient)
	SetupPurchaseRouter(e, authMiddleware)
	SetupMessageRouter(e, authMiddleware)
	SetupRatingRouter(e, authMiddleware)
	SetupReportRouter(e, authMiddleware, moderatorMiddleware)
	SetupWebSocketRouter(e, wsHandler)
	SetupHealthRouter(e)
}
