package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
)

var ErrNotFound = errors.New("cat not found")

// StoredCat is a cat as read back from a repository, with the timestamps the store keeps.
type StoredCat struct {
	Cat       *domain.Cat
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, cat *domain.Cat) (*StoredCat, error)
	GetByID(ctx context.Context, id string) (*StoredCat, error)
	// FindByIDs returns the cats that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*StoredCat, error)
	FindByStatus(ctx context.Context, statuses []domain.Status) ([]*StoredCat, error)
	Delete(ctx context.Context, id string) error
}
