package store

import (
	"context"
	"strings"
	"time"

	"github.com/Aarti-panchal01/Khoj/types"
)

// ConversationKey is the structured form of a conversation id. Callers
// construct ids as "<kind>_<itemID>" so a conversation can be traced
// back to the item it is about.
type ConversationKey struct {
	Kind   string
	ItemID string
}

// ParseConversationKey splits a conversation id on underscores and
// takes the second segment as the item id. A malformed id (no
// underscore) yields an empty ItemID, never an error; the conversation
// then simply has no item association.
func ParseConversationKey(id string) ConversationKey {
	parts := strings.Split(id, "_")
	key := ConversationKey{Kind: parts[0]}
	if len(parts) > 1 {
		key.ItemID = parts[1]
	}
	return key
}

// CreateMessage appends a message to the conversation with the given
// id, creating the conversation on first use. A new conversation's
// participant set holds only the sender; the counterpart is added by
// AddParticipant when they open the thread. The denormalized
// lastMessage fields always reflect the newest message.
func (s *Store) CreateMessage(ctx context.Context, conversationID, senderID, text string) (types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conversations []types.Conversation
	if _, err := s.loadValue(ctx, keyConversations, &conversations); err != nil {
		return types.Message{}, err
	}

	message := types.Message{
		ID:        newID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now(),
	}

	index := -1
	for i := range conversations {
		if conversations[i].ID == conversationID {
			index = i
			break
		}
	}

	if index >= 0 {
		conversations[index].Messages = append(conversations[index].Messages, message)
		conversations[index].LastMessage = text
		conversations[index].LastMessageAt = message.Timestamp
	} else {
		key := ParseConversationKey(conversationID)
		conversations = append(conversations, types.Conversation{
			ID:            conversationID,
			Participants:  []string{senderID},
			ItemID:        key.ItemID,
			LastMessage:   text,
			LastMessageAt: message.Timestamp,
			Messages:      []types.Message{message},
		})
	}

	if err := s.saveValue(ctx, keyConversations, conversations); err != nil {
		return types.Message{}, err
	}
	return message, nil
}

// AddParticipant inserts a user into a conversation's participant set
// if not already present. Missing conversations are a silent no-op.
func (s *Store) AddParticipant(ctx context.Context, conversationID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conversations []types.Conversation
	if _, err := s.loadValue(ctx, keyConversations, &conversations); err != nil {
		return err
	}

	for i := range conversations {
		if conversations[i].ID != conversationID {
			continue
		}
		for _, p := range conversations[i].Participants {
			if p == userID {
				return nil
			}
		}
		conversations[i].Participants = append(conversations[i].Participants, userID)
		return s.saveValue(ctx, keyConversations, conversations)
	}
	return nil
}

// Conversation returns the conversation with the given id, or nil when
// absent.
func (s *Store) Conversation(ctx context.Context, id string) (*types.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conversations []types.Conversation
	if _, err := s.loadValue(ctx, keyConversations, &conversations); err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].ID == id {
			conversation := conversations[i]
			return &conversation, nil
		}
	}
	return nil, nil
}

// UserConversations returns every conversation the user participates
// in.
func (s *Store) UserConversations(ctx context.Context, userID string) ([]types.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conversations []types.Conversation
	if _, err := s.loadValue(ctx, keyConversations, &conversations); err != nil {
		return nil, err
	}

	matched := make([]types.Conversation, 0)
	for _, conversation := range conversations {
		for _, p := range conversation.Participants {
			if p == userID {
				matched = append(matched, conversation)
				break
			}
		}
	}
	return matched, nil
}
