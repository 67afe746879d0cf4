// Package store implements the entity store: CRUD and filter
// operations over users, items, conversations, and the session
// pointer, persisted as JSON under fixed keys of a key-value
// primitive.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Aarti-panchal01/Khoj/internal/kv"
	"github.com/Aarti-panchal01/Khoj/types"
)

// Fixed keys the four collections are persisted under. The names are
// carried over from the client this store replaces, so an export of
// that data can be loaded verbatim.
const (
	keyUsers         = "lnf_users"
	keyItems         = "lnf_items"
	keyConversations = "lnf_messages"
	keyCurrentUser   = "lnf_current_user"
)

// Store owns the four collections. Every operation is a full
// read-modify-write cycle on a single key; the mutex serializes those
// cycles within this process, which makes in-process lost updates
// impossible. Writers in other processes sharing the same kv still
// race at collection granularity (last write wins); coordinating them
// is out of scope.
type Store struct {
	mu sync.RWMutex
	kv kv.KV
}

// New constructs a Store over the given key-value primitive.
func New(kv kv.KV) *Store {
	return &Store{kv: kv}
}

// Initialize writes empty collections for any of the three list keys
// that are absent, seeding the items collection with two sample
// records. Safe to call on every start; existing data is never
// overwritten.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []types.User
	found, err := s.loadValue(ctx, keyUsers, &users)
	if err != nil {
		return err
	}
	if !found {
		if err := s.saveValue(ctx, keyUsers, []types.User{}); err != nil {
			return err
		}
	}

	var items []types.Item
	found, err = s.loadValue(ctx, keyItems, &items)
	if err != nil {
		return err
	}
	if !found {
		if err := s.saveValue(ctx, keyItems, sampleItems()); err != nil {
			return err
		}
	}

	var conversations []types.Conversation
	found, err = s.loadValue(ctx, keyConversations, &conversations)
	if err != nil {
		return err
	}
	if !found {
		if err := s.saveValue(ctx, keyConversations, []types.Conversation{}); err != nil {
			return err
		}
	}

	return nil
}

func sampleItems() []types.Item {
	return []types.Item{
		{
			ID:                "1",
			Type:              types.ItemTypeFound,
			Title:             "Black iPhone 13 Found",
			Description:       "Found near the library entrance. Has a blue case with stickers.",
			Category:          "Electronics",
			Location:          "Main Library Entrance",
			Date:              time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Images:            []string{"https://images.unsplash.com/photo-1592286927505-2fd3960c6696?w=400"},
			Status:            types.ItemStatusActive,
			Urgent:            false,
			ContactPreference: types.ContactByBoth,
			UserID:            "sample",
			UserName:          "John Doe",
			UserEmail:         "john@college.edu",
			College:           "Sample College",
			CreatedAt:         time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:                "2",
			Type:              types.ItemTypeLost,
			Title:             "Lost Student ID Card",
			Description:       "Lost my student ID card somewhere between the cafeteria and dorm building.",
			Category:          "ID Cards",
			Location:          "Between Cafeteria and Dorm A",
			Date:              time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
			Images:            []string{},
			Status:            types.ItemStatusActive,
			Urgent:            true,
			ContactPreference: types.ContactByEmail,
			UserID:            "sample2",
			UserName:          "Jane Smith",
			UserEmail:         "jane@college.edu",
			College:           "Sample College",
			CreatedAt:         time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
		},
	}
}

// loadValue unmarshals the value stored under key into dst. It reports
// false with dst untouched when the key is absent.
func (s *Store) loadValue(ctx context.Context, key string, dst any) (bool, error) {
	data, found, err := s.kv.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: load %s: %v", ErrStorageUnavailable, key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, key, err)
	}
	return true, nil
}

func (s *Store) saveValue(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorageUnavailable, key, err)
	}
	if err := s.kv.Save(ctx, key, data); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

// newID generates a unique identifier: millisecond timestamp in base36
// followed by random hex, matching the id shape of existing records.
func newID() string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + hex.EncodeToString(buf[:])
}
