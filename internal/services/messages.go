package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Aarti-panchal01/Khoj/internal/mq"
	"github.com/Aarti-panchal01/Khoj/types"
)

const messageEventsChannel = "message-events"

// MessageStore defines the entity-store operations messaging needs.
type MessageStore interface {
	CreateMessage(ctx context.Context, conversationID, senderID, text string) (types.Message, error)
	AddParticipant(ctx context.Context, conversationID, userID string) error
	Conversation(ctx context.Context, id string) (*types.Conversation, error)
	UserConversations(ctx context.Context, userID string) ([]types.Conversation, error)
}

// MessageEvent is the payload published to the message events channel.
type MessageEvent struct {
	Event          string `json:"event"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}

// MessageService encapsulates messaging use-cases.
type MessageService struct {
	store  MessageStore
	events *mq.MQ
}

// NewMessageService constructs a MessageService. events may be nil.
func NewMessageService(store MessageStore, events *mq.MQ) *MessageService {
	return &MessageService{store: store, events: events}
}

func (s *MessageService) Send(ctx context.Context, conversationID, senderID, text string) (types.Message, error) {
	message, err := s.store.CreateMessage(ctx, conversationID, senderID, text)
	if err != nil {
		return types.Message{}, err
	}
	s.publish(ctx, MessageEvent{
		Event:          "message.created",
		ConversationID: conversationID,
		SenderID:       senderID,
	})
	return message, nil
}

func (s *MessageService) AddParticipant(ctx context.Context, conversationID, userID string) error {
	return s.store.AddParticipant(ctx, conversationID, userID)
}

func (s *MessageService) Conversation(ctx context.Context, id string) (*types.Conversation, error) {
	return s.store.Conversation(ctx, id)
}

func (s *MessageService) UserConversations(ctx context.Context, userID string) ([]types.Conversation, error) {
	return s.store.UserConversations(ctx, userID)
}

func (s *MessageService) publish(ctx context.Context, event MessageEvent) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if _, err := s.events.Publish(ctx, messageEventsChannel, data, map[string]string{"event": event.Event}); err != nil {
		log.Printf("publish %s: %v", event.Event, err)
	}
}
