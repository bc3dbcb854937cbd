package websocket

import (
	"encoding/json"
	"time"

	"locallink/pkg/logger"
)

// Event types pushed to clients.
const (
	EventPing         = "ping"
	EventPong         = "pong"
	EventError        = "error"
	EventChatMessage  = "chat_message"
	EventChatDeleted  = "chat_deleted"
	EventUnreadCount  = "unread_count"
	EventNotification = "notification"
)

// Event is the envelope of every message on the socket.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	ChatID    string      `json:"chat_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type UnreadCountData struct {
	Chats int `json:"chats"`
}

// HandleClientMessage answers client messages. The socket is push only, so
// anything other than a ping is rejected.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var event Event
	if err := json.Unmarshal(messageBytes, &event); err != nil {
		logger.Debug("websocket: bad message from %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch event.Type {
	case EventPing:
		m.sendToClient(client, Event{
			Type: EventPong,
			Data: map[string]string{"status": "alive"},
		})
	default:
		m.sendErrorToClient(client, "Unsupported message type: "+event.Type)
	}
}

func (m *Manager) sendToClient(client *Client, event Event) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().Format(time.RFC3339)
	}
	b, err := json.Marshal(event)
	if err != nil {
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, live := m.clients[client.UserID][client]; !live {
		return
	}
	select {
	case client.Send <- b:
	default:
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, Event{
		Type: EventError,
		Data: map[string]string{"error": errorMsg},
	})
}
