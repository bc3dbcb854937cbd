package handler

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/usecase"
	"locallink/pkg/response"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

func (h *FavoriteHandler) List(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	snap, err := h.favoriteUseCase.List(c.Request().Context(), userID, waitParam(c))
	return mounted(c, snap, err)
}

// Toggle flips the favorite. A failed write is reported, but the displayed
// list keeps the flipped state until the next successful fetch.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.favoriteUseCase.Toggle(c.Request().Context(), userID, c.Param("listingId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *FavoriteHandler) Status(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	listingID := c.Param("listingId")
	return response.Success(c, usecase.ToggleResult{
		ListingID:  listingID,
		IsFavorite: h.favoriteUseCase.IsFavorite(c.Request().Context(), userID, listingID),
	})
}
