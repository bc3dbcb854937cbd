package entity

import (
	"strings"
	"time"
)

// ConversationSeparator joins the two participant ids of a conversation id.
const ConversationSeparator = "_"

// ChatSummary mirrors the chats/{chatId} document. ChatID is the document id
// and is not stored in the document itself.
type ChatSummary struct {
	ChatID       string          `json:"chat_id" firestore:"-"`
	LastMessage  string          `json:"last_message" firestore:"lastMessage"`
	Timestamp    time.Time       `json:"timestamp" firestore:"timestamp"`
	Participants map[string]bool `json:"participants" firestore:"participants"`
	Unread       map[string]bool `json:"unread" firestore:"unread"`
}

// ConversationID derives the chat id shared by two users. It is the same
// whichever side asks. Ids are only unique per pair when neither user id
// contains ConversationSeparator, which holds for Firebase uids; see
// ValidParticipantID.
func ConversationID(userA, userB string) string {
	if userA < userB {
		return userA + ConversationSeparator + userB
	}
	return userB + ConversationSeparator + userA
}

// ValidParticipantID reports whether id can take part in a conversation id.
func ValidParticipantID(id string) bool {
	return id != "" && !strings.Contains(id, ConversationSeparator)
}

// IsConversationMember reports whether userID is one of the two users a
// conversation id was derived from. It holds before the chat document exists.
func IsConversationMember(chatID, userID string) bool {
	if !ValidParticipantID(userID) {
		return false
	}
	parts := strings.Split(chatID, ConversationSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	return parts[0] == userID || parts[1] == userID
}

// OtherParticipant returns the first participant that is not userID.
func (c *ChatSummary) OtherParticipant(userID string) string {
	for id := range c.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

func (c *ChatSummary) HasParticipant(userID string) bool {
	return c.Participants[userID]
}

func (c *ChatSummary) IsUnreadFor(userID string) bool {
	return c.Unread[userID]
}
