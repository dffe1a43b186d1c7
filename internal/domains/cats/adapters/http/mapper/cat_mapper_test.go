package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
)

func TestFromStored(t *testing.T) {
	cat, err := domain.NewCat("c1", "Tom", []string{"http://example.com/tom.jpg"})
	require.NoError(t, err)
	cat.UpdateStatus(domain.StatusReserved)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	out := FromStored(&ports.StoredCat{
		Cat:       cat,
		CreatedAt: created,
		UpdatedAt: created,
	})
	require.Equal(t, "c1", out.ID)
	require.Equal(t, "reserved", out.Status)
	require.False(t, out.Adoptable)
	require.Equal(t, created, out.CreatedAt)
}

func TestFromStoredList_NeverNil(t *testing.T) {
	out := FromStoredList(nil)
	require.NotNil(t, out)
	require.Empty(t, out)
}
