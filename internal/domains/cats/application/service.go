package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

// Service orchestrates the cat catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// Register lists a new cat. A blank id is replaced by a generated UUID.
func (s *Service) Register(ctx context.Context, input ports.RegisterCatInput) (*ports.StoredCat, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	cat, err := domain.NewCat(id, input.Name, input.PhotoURLs)
	if err != nil {
		return nil, mapError(err)
	}
	if err := cat.UpdateAge(input.AgeMonths); err != nil {
		return nil, mapError(err)
	}
	cat.Describe(input.Breed, input.Description)
	cat.UpdateSex(domain.Sex(input.Sex))
	cat.UpdateStatus(domain.Status(input.Status))

	saved, err := s.repo.Save(ctx, cat)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single cat.
func (s *Service) GetByID(ctx context.Context, id string) (*ports.StoredCat, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return stored, nil
}

// ListAdoptable returns the cats still open for adoption.
func (s *Service) ListAdoptable(ctx context.Context) ([]*ports.StoredCat, error) {
	result, err := s.repo.FindByStatus(ctx, []domain.Status{domain.StatusAvailable})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// ResolveFavorites returns the cats behind a list of favorite ids, in the order given.
// Ids with no matching cat are skipped; favorites may outlive the listing they point to.
func (s *Service) ResolveFavorites(ctx context.Context, ids []string) ([]*ports.StoredCat, error) {
	if len(ids) == 0 {
		return []*ports.StoredCat{}, nil
	}
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}
	byID := make(map[string]*ports.StoredCat, len(found))
	for _, p := range found {
		if p != nil && p.Cat != nil {
			byID[p.Cat.ID] = p
		}
	}
	result := make([]*ports.StoredCat, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			result = append(result, p)
			delete(byID, id)
		}
	}
	return result, nil
}

// Delete removes a cat from the catalog. Favorites pointing at it are left as they are.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
