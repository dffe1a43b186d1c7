package ports

import "context"

// RegisterCatInput carries the fields accepted when listing a new cat.
type RegisterCatInput struct {
	ID          string
	Name        string
	Breed       string
	AgeMonths   int
	Sex         string
	Description string
	PhotoURLs   []string
	Status      string
}

// Service exposes the catalog use cases to driving adapters.
type Service interface {
	Register(ctx context.Context, input RegisterCatInput) (*StoredCat, error)
	GetByID(ctx context.Context, id string) (*StoredCat, error)
	ListAdoptable(ctx context.Context) ([]*StoredCat, error)
	ResolveFavorites(ctx context.Context, ids []string) ([]*StoredCat, error)
	Delete(ctx context.Context, id string) error
}
