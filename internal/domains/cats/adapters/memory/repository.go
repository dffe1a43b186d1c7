package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog used when no database is configured and in tests.
type Repository struct {
	mu   sync.RWMutex
	cats map[string]*ports.StoredCat
	now  func() time.Time
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		cats: map[string]*ports.StoredCat{},
		now:  time.Now,
	}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.mu.Lock()
		r.now = now
		r.mu.Unlock()
	}
	return r
}

// Save inserts or replaces a cat, keeping the original creation time.
func (r *Repository) Save(_ context.Context, cat *domain.Cat) (*ports.StoredCat, error) {
	if cat == nil {
		return nil, errors.New("cannot save nil cat")
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	stored := &ports.StoredCat{Cat: cat.Clone(), CreatedAt: timestamp, UpdatedAt: timestamp}
	if entry, ok := r.cats[cat.ID]; ok {
		stored.CreatedAt = entry.CreatedAt
	}
	r.cats[cat.ID] = stored
	return snapshot(stored), nil
}

// GetByID fetches a cat if present.
func (r *Repository) GetByID(_ context.Context, id string) (*ports.StoredCat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cats[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return snapshot(entry), nil
}

// FindByIDs returns the cats that exist among ids.
func (r *Repository) FindByIDs(_ context.Context, ids []string) ([]*ports.StoredCat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.StoredCat, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if entry, ok := r.cats[id]; ok {
			list = append(list, snapshot(entry))
		}
	}
	return list, nil
}

// FindByStatus returns cats with a matching status, oldest listing first.
func (r *Repository) FindByStatus(_ context.Context, statuses []domain.Status) ([]*ports.StoredCat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := map[domain.Status]struct{}{}
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	list := []*ports.StoredCat{}
	for _, entry := range r.cats {
		if _, ok := set[entry.Cat.Status]; ok {
			list = append(list, snapshot(entry))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].CreatedAt, list[j].CreatedAt
		if a.Equal(b) {
			return list[i].Cat.ID < list[j].Cat.ID
		}
		return a.Before(b)
	})
	return list, nil
}

// Delete removes a cat.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cats[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.cats, id)
	return nil
}

func snapshot(entry *ports.StoredCat) *ports.StoredCat {
	out := *entry
	out.Cat = entry.Cat.Clone()
	return &out
}
