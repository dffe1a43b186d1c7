package memory

import (
	"encoding/json"
	"sync"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

var _ ports.LocalStore = (*LocalStore)(nil)

// LocalStore is an in-memory device store. It keeps the encoded payload rather than the
// slice so it decodes and fails the same way the file store does.
type LocalStore struct {
	mu  sync.Mutex
	raw []byte
}

// NewLocalStore creates a store, optionally seeded with ids.
func NewLocalStore(ids ...domain.ItemID) *LocalStore {
	s := &LocalStore{}
	if len(ids) > 0 {
		_ = s.Write(ids)
	}
	return s
}

// Read decodes the stored list. An empty store yields nil, nil.
func (s *LocalStore) Read() ([]domain.ItemID, error) {
	s.mu.Lock()
	raw := append([]byte{}, s.raw...)
	s.mu.Unlock()
	if len(raw) == 0 {
		return nil, nil
	}
	var ids []domain.ItemID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Write replaces the stored list.
func (s *LocalStore) Write(ids []domain.ItemID) error {
	if ids == nil {
		ids = []domain.ItemID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}

// SetRaw stores an arbitrary payload, e.g. to simulate a corrupted device cache.
func (s *LocalStore) SetRaw(raw []byte) {
	s.mu.Lock()
	s.raw = append([]byte{}, raw...)
	s.mu.Unlock()
}
