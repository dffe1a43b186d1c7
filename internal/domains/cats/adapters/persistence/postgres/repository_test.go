package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepository_NotConfigured(t *testing.T) {
	repo := NewRepository(nil)
	_, err := repo.GetByID(context.Background(), "c1")
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = repo.FindByIDs(context.Background(), []string{"c1"})
	require.ErrorIs(t, err, ErrNotConfigured)
	require.ErrorIs(t, repo.Delete(context.Background(), "c1"), ErrNotConfigured)
}
