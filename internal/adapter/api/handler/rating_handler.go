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

type RatingHandler struct {
	ratingUseCase *usecase.RatingUseCase
	wsManager     *websocket.Manager
}

func NewRatingHandler(ratingUseCase *usecase.RatingUseCase, wsManager *websocket.Manager) *RatingHandler {
	return &RatingHandler{
		ratingUseCase: ratingUseCase,
		wsManager:     wsManager,
	}
}

type submitRatingRequest struct {
	PurchaseID string `json:"purchaseId" validate:"required"`
	Direction  string `json:"direction" validate:"required,oneof=buyer_to_seller seller_to_buyer"`
	Score      int    `json:"score" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"omitempty,max=1000"`
}

func (h *RatingHandler) Submit(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.ratingUseCase.SubmitRating(c.Request().Context(), uid, usecase.SubmitRatingInput{
		PurchaseID: req.PurchaseID,
		Direction:  entity.RatingDirection(req.Direction),
		Score:      req.Score,
		Comment:    req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Created(c, result.Rating)
}

// Status reports which directions of a purchase have been rated so far.
func (h *RatingHandler) Status(c echo.Context) error {
	uid := c.Get("uid").(string)
	purchaseID := c.Param("id")

	status, err := h.ratingUseCase.Status(c.Request().Context(), uid, purchaseID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, status)
}

func (h *RatingHandler) ListForUser(c echo.Context) error {
	userID := c.Param("id")

	pagination := utils.GetPaginationParams(c)

	ratings, total, err := h.ratingUseCase.ListForUser(c.Request().Context(), userID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, ratings, total, pagination.Page, pagination.PageSize)
}

func (h *RatingHandler) Summary(c echo.Context) error {
	userID := c.Param("id")

	count, average, err := h.ratingUseCase.Summary(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"count":   count,
		"average": average,
	})
}
