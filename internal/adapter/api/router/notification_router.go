package router

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/handler"
	"locallink/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread", notificationHandler.UnreadCount)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
}
