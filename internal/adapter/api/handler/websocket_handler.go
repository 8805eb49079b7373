package handler

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"renaix/internal/domain/repository"
	ws "renaix/internal/infrastructure/websocket"
	"renaix/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	wsManager  *ws.Manager
	authClient *auth.Client
	userRepo   repository.UserRepository
}

func NewWebSocketHandler(wsManager *ws.Manager, authClient *auth.Client, userRepo repository.UserRepository) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:  wsManager,
		authClient: authClient,
		userRepo:   userRepo,
	}
}

// HandleConnection upgrades the request and keeps a notification channel open
// for the authenticated user. The token comes from the token query param or
// the Authorization header; browsers cannot set headers on websocket dials.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	idToken := c.QueryParam("token")
	if idToken == "" {
		authHeader := c.Request().Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			idToken = parts[1]
		}
	}

	if idToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication token is required")
	}

	ctx := c.Request().Context()

	token, err := h.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	// The role decides whether moderator broadcasts reach this connection.
	role := ""
	if user, err := h.userRepo.GetByID(ctx, token.UID); err == nil {
		role = user.Role
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Websocket upgrade failed for user %s: %v", token.UID, err)
		return err
	}

	client := &ws.Client{
		UserID: token.UID,
		Role:   role,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.WritePump()
	go client.ReadPump(h.wsManager)

	return nil
}
