//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/cat-haven/internal/domains/cats/domain"
	"github.com/Apurer/cat-haven/internal/domains/cats/ports"
	"github.com/Apurer/cat-haven/internal/platform/migrations"
)

func setupCatsPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("cathaven_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, migrations.Run(db))
	return db
}

func TestRepository_SaveGetUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupCatsPostgres(t))
	ctx := context.Background()

	cat, err := domain.NewCat("c1", "Mittens", []string{"http://example.com/mittens.jpg"})
	require.NoError(t, err)
	cat.Describe("Tabby", "Loves laps")

	saved, err := repo.Save(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, "Mittens", saved.Cat.Name)
	assert.Equal(t, []string{"http://example.com/mittens.jpg"}, saved.Cat.PhotoURLs)
	assert.False(t, saved.CreatedAt.IsZero())

	cat.UpdateStatus(domain.StatusReserved)
	updated, err := repo.Save(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, updated.Cat.Status)
	assert.Equal(t, saved.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_FindByIDsAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := NewRepository(setupCatsPostgres(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		cat, err := domain.NewCat(id, "cat-"+id, []string{"p"})
		require.NoError(t, err)
		if id == "c" {
			cat.UpdateStatus(domain.StatusAdopted)
		}
		_, err = repo.Save(ctx, cat)
		require.NoError(t, err)
	}

	found, err := repo.FindByIDs(ctx, []string{"a", "c", "zzz"})
	require.NoError(t, err)
	ids := make([]string, 0, len(found))
	for _, p := range found {
		ids = append(ids, p.Cat.ID)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, ids)

	available, err := repo.FindByStatus(ctx, []domain.Status{domain.StatusAvailable})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.ErrorIs(t, repo.Delete(ctx, "a"), ports.ErrNotFound)
}
