package handler

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/usecase"
	"locallink/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text           string  `json:"text" validate:"max=4000"`
	ImageURL       *string `json:"image_url,omitempty" validate:"omitempty,url"`
	AttachedItemID *string `json:"attached_item_id,omitempty" validate:"omitempty,min=1"`
}

// GetUserChats mounts the chat list.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	snap, err := h.chatUseCase.Chats(c.Request().Context(), userID, waitParam(c))
	return mounted(c, snap, err)
}

func (h *ChatHandler) UnreadCount(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	count, err := h.chatUseCase.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"count": count})
}

// GetChatMessages mounts one conversation and marks it read.
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	snap, err := h.chatUseCase.Messages(c.Request().Context(), userID, c.Param("chatId"), waitParam(c))
	return mounted(c, snap, err)
}

// SendMessage sends to the user in the path, creating the chat on first
// contact.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.chatUseCase.Send(c.Request().Context(), userID, c.Param("userId"), usecase.SendMessageInput{
		Text:           req.Text,
		ImageURL:       req.ImageURL,
		AttachedItemID: req.AttachedItemID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *ChatHandler) DeleteChat(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.Delete(c.Request().Context(), userID, c.Param("chatId")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Chat deleted successfully"})
}
