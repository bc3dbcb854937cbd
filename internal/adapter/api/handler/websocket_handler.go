package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "locallink/internal/infrastructure/websocket"
	"locallink/internal/usecase"
	"locallink/pkg/errors"
	"locallink/pkg/logger"
	"locallink/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	chatUseCase *usecase.ChatUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		chatUseCase: chatUseCase,
	}
}

// HandleWebSocket upgrades the connection and streams the user's live
// events, starting with the unread chat count, until the client goes away.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("websocket: upgrade for %s failed: %v", userID, err)
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(userID, conn)
	select {
	case h.wsManager.Register <- client:
	case <-h.wsManager.Done():
		conn.Close()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		client.ReadPump(h.wsManager)
		cancel()
	}()
	go client.WritePump()
	go func() {
		select {
		case <-client.Registered():
			h.watchUnread(ctx, userID)
		case <-ctx.Done():
		}
	}()

	return nil
}

func (h *WebSocketHandler) watchUnread(ctx context.Context, userID string) {
	err := h.chatUseCase.WatchUnread(ctx, userID, func(count int) {
		h.wsManager.SendEvent(userID, ws.Event{
			Type: ws.EventUnreadCount,
			Data: ws.UnreadCountData{Chats: count},
		})
	})
	if err != nil {
		logger.Warn("websocket: unread watch for %s stopped: %v", userID, err)
	}
}
