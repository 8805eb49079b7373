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

type PurchaseHandler struct {
	transactionUseCase *usecase.TransactionUseCase
	wsManager          *websocket.Manager
}

func NewPurchaseHandler(transactionUseCase *usecase.TransactionUseCase, wsManager *websocket.Manager) *PurchaseHandler {
	return &PurchaseHandler{
		transactionUseCase: transactionUseCase,
		wsManager:          wsManager,
	}
}

type openPurchaseRequest struct {
	ProductID   string   `json:"productId" validate:"required"`
	AgreedPrice *float64 `json:"agreedPrice" validate:"omitempty,gt=0"`
	Notes       string   `json:"notes" validate:"omitempty,max=500"`
}

func (h *PurchaseHandler) Open(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req openPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.transactionUseCase.OpenPurchase(c.Request().Context(), uid, usecase.OpenPurchaseInput{
		ProductID:   req.ProductID,
		AgreedPrice: req.AgreedPrice,
		Notes:       req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Created(c, result.Purchase)
}

func (h *PurchaseHandler) Confirm(c echo.Context) error {
	uid := c.Get("uid").(string)
	purchaseID := c.Param("id")

	result, err := h.transactionUseCase.Confirm(c.Request().Context(), uid, purchaseID)
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Success(c, result.Purchase)
}

func (h *PurchaseHandler) Complete(c echo.Context) error {
	uid := c.Get("uid").(string)
	purchaseID := c.Param("id")

	result, err := h.transactionUseCase.Complete(c.Request().Context(), uid, purchaseID)
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Success(c, result.Purchase)
}

func (h *PurchaseHandler) Cancel(c echo.Context) error {
	uid := c.Get("uid").(string)
	purchaseID := c.Param("id")

	var req struct {
		Reason string `json:"reason" validate:"omitempty,max=500"`
	}

	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.transactionUseCase.Cancel(c.Request().Context(), uid, purchaseID, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Success(c, result.Purchase)
}

func (h *PurchaseHandler) GetByID(c echo.Context) error {
	uid := c.Get("uid").(string)
	purchaseID := c.Param("id")

	purchase, err := h.transactionUseCase.GetByID(c.Request().Context(), uid, purchaseID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, purchase)
}

func (h *PurchaseHandler) GetByCode(c echo.Context) error {
	uid := c.Get("uid").(string)
	code := c.Param("code")

	purchase, err := h.transactionUseCase.GetByCode(c.Request().Context(), uid, code)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, purchase)
}

// List returns the caller's purchases, as buyer or seller depending on the
// role query param.
func (h *PurchaseHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	role := c.QueryParam("role")
	state := entity.PurchaseState(c.QueryParam("status"))

	pagination := utils.GetPaginationParams(c)

	purchases, total, err := h.transactionUseCase.List(c.Request().Context(), uid, role, state, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, purchases, total, pagination.Page, pagination.PageSize)
}

func (h *PurchaseHandler) GetLogs(c echo.Context) error {
	uid := c.Get("uid").(string)
	purchaseID := c.Param("id")

	logs, err := h.transactionUseCase.GetLogs(c.Request().Context(), uid, purchaseID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, logs)
}
