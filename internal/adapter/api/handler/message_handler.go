package handler

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/domain/entity"
	"renaix/internal/infrastructure/websocket"
	"renaix/internal/usecase"
	"renaix/pkg/errors"
	"renaix/pkg/response"
	"renaix/pkg/utils"
)

type MessageHandler struct {
	messagingUseCase *usecase.MessagingUseCase
	wsManager        *websocket.Manager
}

func NewMessageHandler(messagingUseCase *usecase.MessagingUseCase, wsManager *websocket.Manager) *MessageHandler {
	return &MessageHandler{
		messagingUseCase: messagingUseCase,
		wsManager:        wsManager,
	}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	ProductID   string `json:"productId"`
	Body        string `json:"body" validate:"required"`
}

type sendOfferRequest struct {
	RecipientID  string  `json:"recipientId" validate:"required"`
	ProductID    string  `json:"productId" validate:"required"`
	OfferedPrice float64 `json:"offeredPrice" validate:"required,gt=0"`
	Body         string  `json:"body"`
}

type respondToOfferRequest struct {
	ReplyToID    string   `json:"replyToId" validate:"required"`
	Kind         string   `json:"kind" validate:"required,oneof=offer_accepted offer_rejected counter_offer"`
	CounterPrice *float64 `json:"counterPrice" validate:"omitempty,gt=0"`
	ProductID    string   `json:"productId"`
	Body         string   `json:"body"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.messagingUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		RecipientID: req.RecipientID,
		ProductID:   req.ProductID,
		Body:        req.Body,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Created(c, result.Message)
}

func (h *MessageHandler) SendOffer(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req sendOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.messagingUseCase.SendOffer(c.Request().Context(), uid, usecase.SendOfferInput{
		RecipientID:  req.RecipientID,
		ProductID:    req.ProductID,
		OfferedPrice: req.OfferedPrice,
		Body:         req.Body,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Created(c, result.Message)
}

func (h *MessageHandler) RespondToOffer(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req respondToOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.messagingUseCase.RespondToOffer(c.Request().Context(), uid, usecase.RespondToOfferInput{
		ReplyToID:    req.ReplyToID,
		Kind:         entity.MessageKind(req.Kind),
		CounterPrice: req.CounterPrice,
		ProductID:    req.ProductID,
		Body:         req.Body,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Created(c, result.Message)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(string)
	messageID := c.Param("id")

	message, err := h.messagingUseCase.MarkRead(c.Request().Context(), uid, messageID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

func (h *MessageHandler) MarkUnread(c echo.Context) error {
	uid := c.Get("uid").(string)
	messageID := c.Param("id")

	message, err := h.messagingUseCase.MarkUnread(c.Request().Context(), uid, messageID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

// ListConversation pages through the messages between the caller and another
// user, oldest first. Scoped to a product when productId is given.
func (h *MessageHandler) ListConversation(c echo.Context) error {
	uid := c.Get("uid").(string)
	otherID := c.Param("userId")
	productID := c.QueryParam("productId")

	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.messagingUseCase.ListConversation(c.Request().Context(), uid, otherID, productID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *MessageHandler) ListThreads(c echo.Context) error {
	uid := c.Get("uid").(string)

	pagination := utils.GetPaginationParams(c)

	threads, total, err := h.messagingUseCase.ListThreads(c.Request().Context(), uid, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, threads, total, pagination.Page, pagination.PageSize)
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	uid := c.Get("uid").(string)

	count, err := h.messagingUseCase.UnreadCount(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{"unread": count})
}
