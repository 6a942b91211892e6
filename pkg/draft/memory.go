package draft

import (
	"context"
	"sync"
)

// MemoryStore keeps the slot in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	set     bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.payload...), nil
}

func (m *MemoryStore) Write(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	m.set = true
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = nil
	m.set = false
	return nil
}
