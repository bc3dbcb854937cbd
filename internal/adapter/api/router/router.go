package router

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/handler"
	"locallink/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, h *handler.Handlers, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e, h.Health)
	SetupListingRouter(e, h.Listing, authMiddleware)
	SetupFavoriteRouter(e, h.Favorite, authMiddleware)
	SetupProfileRouter(e, h.Profile, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupNotificationRouter(e, h.Notification, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
}
