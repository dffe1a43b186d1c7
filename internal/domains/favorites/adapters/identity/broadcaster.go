// Package identity provides an in-process identity source for favorites sessions.
package identity

import (
	"strings"
	"sync"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

var _ ports.IdentityProvider = (*Broadcaster)(nil)

// Broadcaster tracks the signed-in user of one device and notifies subscribers on every
// sign-in and sign-out. It starts unresolved.
//
// Notifications are delivered one change at a time, in the order the changes were made,
// so the last identity a subscriber sees is always Current. Subscribers must not sign in
// or out from inside their callback.
type Broadcaster struct {
	// deliver is held from the state write until every subscriber returned.
	deliver sync.Mutex

	mu          sync.Mutex
	current     *domain.Identity
	resolved    bool
	subscribers map[uint64]func(*domain.Identity)
	nextID      uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: map[uint64]func(*domain.Identity){}}
}

// SignIn marks userID as signed in. A blank id signs out.
func (b *Broadcaster) SignIn(userID string) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		b.publish(nil)
		return
	}
	b.publish(&domain.Identity{UserID: userID})
}

// SignOut resolves the device as anonymous.
func (b *Broadcaster) SignOut() {
	b.publish(nil)
}

func (b *Broadcaster) Current() (*domain.Identity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneIdentity(b.current), b.resolved
}

func (b *Broadcaster) Subscribe(fn func(*domain.Identity)) func() {
	if fn == nil {
		return func() {}
	}
	b.deliver.Lock()
	defer b.deliver.Unlock()
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers[id] = fn
	current, resolved := cloneIdentity(b.current), b.resolved
	b.mu.Unlock()

	if resolved {
		fn(current)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
		})
	}
}

func (b *Broadcaster) publish(identity *domain.Identity) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	b.current = identity
	b.resolved = true
	subs := make([]func(*domain.Identity), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(cloneIdentity(identity))
	}
}

func cloneIdentity(identity *domain.Identity) *domain.Identity {
	if identity == nil {
		return nil
	}
	copy := *identity
	return &copy
}
