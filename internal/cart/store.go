package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store when no snapshot exists for a key
var ErrNotFound = errors.New("cart snapshot not found")

// Store persists serialized cart snapshots under a key.
// Save overwrites the previous snapshot wholesale.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}

// Deleter is implemented by stores that can drop a snapshot outright.
// Deleting an absent key is not an error.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps snapshots in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Load returns a copy of the snapshot stored under key
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

// Save stores a copy of blob under key
func (m *MemoryStore) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// Delete removes the snapshot stored under key
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return nil
}
