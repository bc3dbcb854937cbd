package handler

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/usecase"
	"locallink/pkg/response"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type listingRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Condition   string   `json:"condition" validate:"max=40"`
	Images      []string `json:"images" validate:"max=10,dive,url"`
	Type        string   `json:"type" validate:"omitempty,oneof=sell buy"`
	BudgetRange *string  `json:"budget_range" validate:"omitempty,max=60"`
}

func (r listingRequest) input() usecase.ListingInput {
	return usecase.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Condition:   r.Condition,
		Images:      r.Images,
		Type:        r.Type,
		BudgetRange: r.BudgetRange,
	}
}

// GetFeed mounts the home feed. "type", "q" and "category" select a
// filtered feed that is never cached.
func (h *ListingHandler) GetFeed(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	q := usecase.FeedQuery{
		Type:     c.QueryParam("type"),
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
	}
	snap, err := h.listingUseCase.Home(c.Request().Context(), userID, q, waitParam(c))
	return mounted(c, snap, err)
}

func (h *ListingHandler) Refresh(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	snap, err := h.listingUseCase.RefreshHome(c.Request().Context(), userID)
	return mounted(c, snap, err)
}

func (h *ListingHandler) GetMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	snap, err := h.listingUseCase.Mine(c.Request().Context(), userID, waitParam(c))
	return mounted(c, snap, err)
}

func (h *ListingHandler) GetByID(c echo.Context) error {
	listing, err := h.listingUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) Create(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req listingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), userID, req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) Update(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req listingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), userID, c.Param("id"), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) Delete(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.listingUseCase.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Listing deleted successfully"})
}
