package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

var _ ports.DurableStore = (*DurableStore)(nil)

// DurableStore keeps per-user favorites in process memory, for development and tests.
type DurableStore struct {
	mu    sync.RWMutex
	users map[string]*domain.FavoriteSet
}

func NewDurableStore() *DurableStore {
	return &DurableStore{users: map[string]*domain.FavoriteSet{}}
}

func (s *DurableStore) List(_ context.Context, userID string) ([]domain.ItemID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return []domain.ItemID{}, nil
	}
	return set.IDs(), nil
}

func (s *DurableStore) Insert(_ context.Context, userID string, itemID domain.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID = strings.TrimSpace(userID)
	set, ok := s.users[userID]
	if !ok {
		set = &domain.FavoriteSet{}
		s.users[userID] = set
	}
	set.Add(itemID)
	return nil
}

func (s *DurableStore) Remove(_ context.Context, userID string, itemID domain.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.users[strings.TrimSpace(userID)]; ok {
		set.Remove(itemID)
	}
	return nil
}
