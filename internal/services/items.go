package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Aarti-panchal01/Khoj/internal/mq"
	"github.com/Aarti-panchal01/Khoj/types"
)

const itemEventsChannel = "item-events"

// ItemStore defines the entity-store operations item use-cases need.
type ItemStore interface {
	CreateItem(ctx context.Context, data types.Item) (types.Item, error)
	Items(ctx context.Context, filter types.ItemFilter) ([]types.Item, error)
	ItemByID(ctx context.Context, id string) (*types.Item, error)
	UserItems(ctx context.Context, userID string) ([]types.Item, error)
	UpdateItem(ctx context.Context, id string, upd types.ItemUpdate) (types.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// ItemEvent is the payload published to the item events channel.
type ItemEvent struct {
	Event    string `json:"event"`
	ItemID   string `json:"itemId"`
	Type     string `json:"type"`
	Category string `json:"category"`
	College  string `json:"college"`
}

// ItemService encapsulates item use-cases. When an event broker is
// configured, successful creates additionally publish an item.created
// event; publishing is best-effort and never fails the operation.
type ItemService struct {
	store  ItemStore
	events *mq.MQ
}

// NewItemService constructs an ItemService. events may be nil, which
// disables event publishing.
func NewItemService(store ItemStore, events *mq.MQ) *ItemService {
	return &ItemService{store: store, events: events}
}

func (s *ItemService) Create(ctx context.Context, data types.Item) (types.Item, error) {
	item, err := s.store.CreateItem(ctx, data)
	if err != nil {
		return types.Item{}, err
	}
	s.publish(ctx, ItemEvent{
		Event:    "item.created",
		ItemID:   item.ID,
		Type:     item.Type,
		Category: item.Category,
		College:  item.College,
	})
	return item, nil
}

func (s *ItemService) List(ctx context.Context, filter types.ItemFilter) ([]types.Item, error) {
	return s.store.Items(ctx, filter)
}

func (s *ItemService) Get(ctx context.Context, id string) (*types.Item, error) {
	return s.store.ItemByID(ctx, id)
}

func (s *ItemService) ListByUser(ctx context.Context, userID string) ([]types.Item, error) {
	return s.store.UserItems(ctx, userID)
}

func (s *ItemService) Update(ctx context.Context, id string, upd types.ItemUpdate) (types.Item, error) {
	return s.store.UpdateItem(ctx, id, upd)
}

func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteItem(ctx, id)
}

func (s *ItemService) publish(ctx context.Context, event ItemEvent) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if _, err := s.events.Publish(ctx, itemEventsChannel, data, map[string]string{"event": event.Event}); err != nil {
		log.Printf("publish %s: %v", event.Event, err)
	}
}
