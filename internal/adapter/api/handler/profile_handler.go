package handler

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/usecase"
	"locallink/pkg/response"
)

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type profileRequest struct {
	Name   string `json:"name" validate:"required,max=80"`
	Email  string `json:"email" validate:"omitempty,email"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
}

func (h *ProfileHandler) GetMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	snap, err := h.profileUseCase.Mine(c.Request().Context(), userID, waitParam(c))
	return mounted(c, snap, err)
}

func (h *ProfileHandler) Save(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.Save(c.Request().Context(), userID, usecase.ProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) GetByID(c echo.Context) error {
	profile, err := h.profileUseCase.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}
