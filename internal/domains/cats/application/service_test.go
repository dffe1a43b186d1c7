package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catmemory "github.com/Apurer/cat-haven/internal/domains/cats/adapters/memory"
	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

func register(t *testing.T, svc *Service, id, status string) *ports.StoredCat {
	t.Helper()
	stored, err := svc.Register(context.Background(), ports.RegisterCatInput{
		ID:        id,
		Name:      "cat-" + id,
		PhotoURLs: []string{"http://example.com/" + id + ".jpg"},
		Status:    status,
	})
	require.NoError(t, err)
	return stored
}

func TestRegister_Success(t *testing.T) {
	svc := NewService(catmemory.NewRepository())

	stored, err := svc.Register(context.Background(), ports.RegisterCatInput{
		ID:          "c1",
		Name:        "Mittens",
		Breed:       "Tabby",
		AgeMonths:   14,
		Sex:         "female",
		Description: "Loves laps",
		PhotoURLs:   []string{"http://example.com/mittens.jpg"},
	})
	require.NoError(t, err)
	require.Equal(t, "c1", stored.Cat.ID)
	require.Equal(t, domain.SexFemale, stored.Cat.Sex)
	require.Equal(t, domain.StatusAvailable, stored.Cat.Status)
	require.False(t, stored.CreatedAt.IsZero())
}

func TestRegister_GeneratesID(t *testing.T) {
	svc := NewService(catmemory.NewRepository())
	svc.newID = func() string { return "generated" }

	stored := register(t, svc, "", "")
	require.Equal(t, "generated", stored.Cat.ID)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := NewService(catmemory.NewRepository())

	_, err := svc.Register(context.Background(), ports.RegisterCatInput{ID: "c1"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.Register(context.Background(), ports.RegisterCatInput{
		ID: "c1", Name: "Tom", PhotoURLs: []string{"p"}, AgeMonths: -3,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_KeepsCreatedAtOnUpdate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	repo := catmemory.NewRepository().WithClock(func() time.Time { return now })
	svc := NewService(repo)

	first := register(t, svc, "c1", "")
	now = base.Add(time.Hour)
	second := register(t, svc, "c1", "reserved")

	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, base.Add(time.Hour), second.UpdatedAt)
	require.Equal(t, domain.StatusReserved, second.Cat.Status)
}

func TestListAdoptable_OnlyAvailable(t *testing.T) {
	svc := NewService(catmemory.NewRepository())
	register(t, svc, "a", "available")
	register(t, svc, "b", "adopted")
	register(t, svc, "c", "reserved")

	list, err := svc.ListAdoptable(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Cat.ID)
}

func TestResolveFavorites_KeepsOrderAndSkipsMissing(t *testing.T) {
	svc := NewService(catmemory.NewRepository())
	register(t, svc, "a", "")
	register(t, svc, "b", "adopted")
	register(t, svc, "c", "")

	list, err := svc.ResolveFavorites(context.Background(), []string{"c", "gone", "a", "b", "a"})
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.Cat.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	empty, err := svc.ResolveFavorites(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(catmemory.NewRepository())
	register(t, svc, "a", "")

	require.NoError(t, svc.Delete(context.Background(), "a"))
	require.ErrorIs(t, svc.Delete(context.Background(), "a"), ports.ErrNotFound)
	_, err := svc.GetByID(context.Background(), "a")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
