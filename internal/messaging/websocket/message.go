package websocket

import "encoding/json"

// Inbound is a client frame before its payload is decoded.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type JoinPayload struct {
	UserID string `json:"userId"`
}

// SendMessagePayload carries either new content or a reference to a message
// the client already stored over HTTP. SenderID is informational; the
// authenticated user is always the sender.
type SendMessagePayload struct {
	ReceiverID string      `json:"receiverId"`
	SenderID   string      `json:"senderId,omitempty"`
	Content    string      `json:"content"`
	Message    *MessageRef `json:"message,omitempty"`
}

type MessageRef struct {
	ID string `json:"id"`
}
