package handler

import (
	"github.com/labstack/echo/v4"

	"renaix/internal/usecase"
	"renaix/pkg/errors"
	"renaix/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req struct {
		DisplayName string `json:"displayName" validate:"omitempty,min=2"`
		Phone       string `json:"phone" validate:"omitempty,e164"`
		Location    string `json:"location"`
		Bio         string `json:"bio" validate:"omitempty,max=500"`
	}

	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Location:    req.Location,
		Bio:         req.Bio,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetStats(c echo.Context) error {
	uid := c.Get("uid").(string)

	stats, err := h.userUseCase.Stats(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

// GetPublicProfile is the profile other users see: contact details blanked,
// marketplace stats attached.
func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")

	user, stats, err := h.userUseCase.PublicProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"user":  user,
		"stats": stats,
	})
}
