package types

import "time"

// Message is a single chat message. Messages are immutable and
// append-only within their conversation.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation groups the messages exchanged about an item. The
// lastMessage fields are denormalized copies of the newest message.
type Conversation struct {
	ID            string    `json:"id"`
	Participants  []string  `json:"participants"`
	ItemID        string    `json:"itemId"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Messages      []Message `json:"messages"`
}
