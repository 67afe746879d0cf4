// Package kv provides the byte-oriented load/save-by-key primitive the
// entity store persists its collections with.
package kv

import "context"

// KV defines the storage primitive: whole values stored under fixed
// keys. Load reports false (not an error) for an absent key.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
