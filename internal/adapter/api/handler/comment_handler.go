package handler

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/usecase"
	"renaix/pkg/errors"
	"renaix/pkg/response"
	"renaix/pkg/utils"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
	}
}

func (h *CommentHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	var req struct {
		Body string `json:"body" validate:"required,max=1000"`
	}

	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.commentUseCase.Create(c.Request().Context(), uid, productID, req.Body)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *CommentHandler) ListByProduct(c echo.Context) error {
	productID := c.Param("id")

	pagination := utils.GetPaginationParams(c)

	comments, total, err := h.commentUseCase.ListByProduct(c.Request().Context(), productID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, comments, total, pagination.Page, pagination.PageSize)
}

func (h *CommentHandler) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)
	commentID := c.Param("commentId")

	if err := h.commentUseCase.Delete(c.Request().Context(), uid, commentID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
