package ports

import (
	"context"
	"errors"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
)

// ErrNotConfigured is returned by adapters constructed without their backing client.
var ErrNotConfigured = errors.New("favorites store not configured")

// DurableStore is the per-user favorites list kept by the backend.
// Insert of an existing pair and Remove of a missing pair succeed.
type DurableStore interface {
	// List returns the user's favorites. A failure is reported as an error, never as an empty list.
	List(ctx context.Context, userID string) ([]domain.ItemID, error)
	Insert(ctx context.Context, userID string, itemID domain.ItemID) error
	Remove(ctx context.Context, userID string, itemID domain.ItemID) error
}

// LocalStore is the device-scoped favorites cache. It is shared by every identity that
// uses the device and is not namespaced per user.
type LocalStore interface {
	// Read returns nil, nil when nothing was stored yet and an error when the stored data is unreadable.
	Read() ([]domain.ItemID, error)
	// Write overwrites the stored list.
	Write(ids []domain.ItemID) error
}
