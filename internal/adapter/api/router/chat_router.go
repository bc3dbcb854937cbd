package router

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/handler"
	"locallink/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("", chatHandler.GetUserChats)
	chats.GET("/unread", chatHandler.UnreadCount)
	chats.GET("/:chatId/messages", chatHandler.GetChatMessages)
	chats.DELETE("/:chatId", chatHandler.DeleteChat)

	// The chat id is derived from both users, so messages are addressed to
	// the other user rather than to a chat.
	chats.POST("/with/:userId/messages", chatHandler.SendMessage)
}
