package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"renaix/internal/domain/entity"
	"renaix/internal/infrastructure/websocket"
	"renaix/internal/usecase"
	"renaix/pkg/errors"
	"renaix/pkg/response"
	"renaix/pkg/utils"
)

type ReportHandler struct {
	moderationUseCase *usecase.ModerationUseCase
	wsManager         *websocket.Manager
}

func NewReportHandler(moderationUseCase *usecase.ModerationUseCase, wsManager *websocket.Manager) *ReportHandler {
	return &ReportHandler{
		moderationUseCase: moderationUseCase,
		wsManager:         wsManager,
	}
}

type fileReportRequest struct {
	ProductID string `json:"productId"`
	CommentID string `json:"commentId"`
	UserID    string `json:"userId"`
	Category  string `json:"category" validate:"required,oneof=inappropriate spam fraud violence misinformation other"`
	Reason    string `json:"reason" validate:"required"`
}

func (h *ReportHandler) File(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req fileReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.moderationUseCase.FileReport(c.Request().Context(), uid, usecase.FileReportInput{
		ProductID: req.ProductID,
		CommentID: req.CommentID,
		UserID:    req.UserID,
		Category:  entity.ReportCategory(req.Category),
		Reason:    req.Reason,
	})
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Created(c, result.Report)
}

func (h *ReportHandler) Assign(c echo.Context) error {
	uid := c.Get("uid").(string)
	reportID := c.Param("id")

	report, err := h.moderationUseCase.Assign(c.Request().Context(), uid, reportID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ReportHandler) Resolve(c echo.Context) error {
	return h.close(c, h.moderationUseCase.Resolve)
}

func (h *ReportHandler) Reject(c echo.Context) error {
	return h.close(c, h.moderationUseCase.Reject)
}

func (h *ReportHandler) close(c echo.Context, action func(ctx context.Context, moderatorID, reportID, resolution string) (*usecase.ReportResult, error)) error {
	uid := c.Get("uid").(string)
	reportID := c.Param("id")

	var req struct {
		Resolution string `json:"resolution" validate:"omitempty,max=1000"`
	}

	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := action(c.Request().Context(), uid, reportID, req.Resolution)
	if err != nil {
		return response.Error(c, err)
	}

	h.wsManager.Publish(result.Events...)

	return response.Success(c, result.Report)
}

func (h *ReportHandler) GetByID(c echo.Context) error {
	uid := c.Get("uid").(string)
	reportID := c.Param("id")

	report, err := h.moderationUseCase.GetByID(c.Request().Context(), uid, reportID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ReportHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	status := entity.ReportStatus(c.QueryParam("status"))

	pagination := utils.GetPaginationParams(c)

	reports, total, err := h.moderationUseCase.List(c.Request().Context(), uid, status, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reports, total, pagination.Page, pagination.PageSize)
}
