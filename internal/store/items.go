package store

import (
	"context"
	"strings"
	"time"

	"github.com/Aarti-panchal01/Khoj/types"
)

// CreateItem records a new lost/found report for the currently logged
// in user. It fails with ErrNotAuthenticated when the session pointer
// is unset. The owner fields are copied verbatim from the session
// snapshot, status is forced to active, and the item is inserted at
// the head of the collection: newest-first order is a guarantee the
// "recent items" views rely on.
func (s *Store) CreateItem(ctx context.Context, data types.Item) (types.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentUserLocked(ctx)
	if err != nil {
		return types.Item{}, err
	}
	if current == nil {
		return types.Item{}, ErrNotAuthenticated
	}

	var items []types.Item
	if _, err := s.loadValue(ctx, keyItems, &items); err != nil {
		return types.Item{}, err
	}

	data.ID = newID()
	data.UserID = current.ID
	data.UserName = current.Name
	data.UserEmail = current.Email
	data.UserPhone = current.Phone
	data.College = current.College
	data.Status = types.ItemStatusActive
	data.CreatedAt = time.Now()
	if data.Images == nil {
		data.Images = []string{}
	}

	items = append([]types.Item{data}, items...)
	if err := s.saveValue(ctx, keyItems, items); err != nil {
		return types.Item{}, err
	}
	return data, nil
}

// Items returns the items matching every set filter, preserving the
// stored newest-first order. The returned slice is freshly allocated;
// the stored collection is never mutated.
func (s *Store) Items(ctx context.Context, filter types.ItemFilter) ([]types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []types.Item
	if _, err := s.loadValue(ctx, keyItems, &items); err != nil {
		return nil, err
	}

	matched := make([]types.Item, 0, len(items))
	for _, item := range items {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func matchesFilter(item types.Item, filter types.ItemFilter) bool {
	if filter.Type != "" && item.Type != filter.Type {
		return false
	}
	if filter.Category != "" && item.Category != filter.Category {
		return false
	}
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) &&
			!strings.Contains(strings.ToLower(item.Location), search) {
			return false
		}
	}
	if filter.Urgent != nil && item.Urgent != *filter.Urgent {
		return false
	}
	return true
}

// ItemByID returns the item with the given id, or nil when absent.
// Absence is a valid result, not an error.
func (s *Store) ItemByID(ctx context.Context, id string) (*types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []types.Item
	if _, err := s.loadValue(ctx, keyItems, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return &item, nil
		}
	}
	return nil, nil
}

// UserItems returns every item reported by the given user.
func (s *Store) UserItems(ctx context.Context, userID string) ([]types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []types.Item
	if _, err := s.loadValue(ctx, keyItems, &items); err != nil {
		return nil, err
	}
	matched := make([]types.Item, 0)
	for _, item := range items {
		if item.UserID == userID {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// UpdateItem merges the non-nil fields of upd over the stored item.
// It fails with ErrItemNotFound when no item has that id.
func (s *Store) UpdateItem(ctx context.Context, id string, upd types.ItemUpdate) (types.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []types.Item
	if _, err := s.loadValue(ctx, keyItems, &items); err != nil {
		return types.Item{}, err
	}

	index := -1
	for i := range items {
		if items[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return types.Item{}, ErrItemNotFound
	}

	items[index] = applyItemUpdate(items[index], upd)
	if err := s.saveValue(ctx, keyItems, items); err != nil {
		return types.Item{}, err
	}
	return items[index], nil
}

// DeleteItem removes the item with the given id. Deleting an id that
// does not exist is a successful no-op; unlike UpdateItem this never
// reports absence, and that asymmetry is part of the contract.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []types.Item
	if _, err := s.loadValue(ctx, keyItems, &items); err != nil {
		return err
	}

	remaining := make([]types.Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	return s.saveValue(ctx, keyItems, remaining)
}

func applyItemUpdate(item types.Item, upd types.ItemUpdate) types.Item {
	if upd.Type != nil {
		item.Type = *upd.Type
	}
	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Location != nil {
		item.Location = *upd.Location
	}
	if upd.Date != nil {
		item.Date = *upd.Date
	}
	if upd.Images != nil {
		item.Images = *upd.Images
	}
	if upd.Status != nil {
		item.Status = *upd.Status
	}
	if upd.Urgent != nil {
		item.Urgent = *upd.Urgent
	}
	if upd.ContactPreference != nil {
		item.ContactPreference = *upd.ContactPreference
	}
	return item
}
