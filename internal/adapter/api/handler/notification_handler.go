package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"locallink/internal/usecase"
	"locallink/pkg/errors"
	"locallink/pkg/response"
	"locallink/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	page := utils.GetPaginationParams(c)
	items, total, err := h.notificationUseCase.List(c.Request().Context(), userID, page.PageSize, page.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessPaginated(c, items, total, page.Page, page.PageSize)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	count, err := h.notificationUseCase.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int64{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification id", err))
	}

	if err := h.notificationUseCase.MarkAsRead(c.Request().Context(), userID, id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Notification marked as read"})
}
