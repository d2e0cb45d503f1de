package domain

import (
	"time"

	userdomain "github.com/hirehub/backend/internal/user/domain"
)

// Message is a persisted direct message. Content is stored trimmed.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	CreatedAt  time.Time
}

// MessageView is a message with both participants' public profiles, the shape
// returned to clients over HTTP and the live channel.
type MessageView struct {
	ID        string             `json:"id"`
	Sender    userdomain.Summary `json:"sender"`
	Receiver  userdomain.Summary `json:"receiver"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Conversation struct {
	User                userdomain.Summary `json:"user"`
	LastMessage         string             `json:"lastMessage"`
	LastMessageTime     time.Time          `json:"lastMessageTime"`
	IsLastMessageFromMe bool               `json:"isLastMessageFromMe"`
}

// PartnerOf returns the other participant of m as seen from userID.
func (m Message) PartnerOf(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
