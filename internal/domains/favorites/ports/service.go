package ports

import (
	"context"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
)

// Service exposes the favorites use cases to driving adapters.
type Service interface {
	IsFavorite(id domain.ItemID) bool
	Toggle(ctx context.Context, id domain.ItemID) bool
	FavoriteIDs() []domain.ItemID
	Session() domain.SessionContext
	Loading() bool
}
