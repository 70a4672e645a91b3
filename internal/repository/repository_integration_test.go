//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/persistence"
	"github.com/spec-kit/catalog-api/internal/repository"
	"github.com/spec-kit/catalog-api/internal/testutil"
	"github.com/spec-kit/catalog-api/migrations"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("catalog_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := testutil.MakeNoopLogger()
	require.NoError(t, persistence.RunMigrations(ctx, pool, migrations.FS, logger))
	// Migrations are idempotent.
	require.NoError(t, persistence.RunMigrations(ctx, pool, migrations.FS, logger))
	return pool
}

func TestRepositories_Postgres(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	products := repository.NewProductRepository(pool)

	var owner *domain.User

	t.Run("users", func(t *testing.T) {
		owner = &domain.User{Username: "alice", Email: "a@x.io", PasswordHash: "$2a$10$hash", Role: domain.RoleUser}
		require.NoError(t, users.Insert(ctx, owner))
		require.NotZero(t, owner.ID)
		require.False(t, owner.CreatedAt.IsZero())

		byEmail, err := users.GetByEmail(ctx, "a@x.io")
		require.NoError(t, err)
		require.Equal(t, owner.ID, byEmail.ID)
		require.Equal(t, domain.RoleUser, byEmail.Role)

		byName, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, owner.ID, byName.ID)

		_, err = users.GetByID(ctx, owner.ID+1000)
		require.ErrorIs(t, err, domain.ErrUserNotFound)

		err = users.Insert(ctx, &domain.User{Username: "other", Email: "a@x.io", PasswordHash: "h", Role: domain.RoleUser})
		require.ErrorIs(t, err, domain.ErrEmailTaken)

		err = users.Insert(ctx, &domain.User{Username: "alice", Email: "b@x.io", PasswordHash: "h", Role: domain.RoleUser})
		require.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("products", func(t *testing.T) {
		category := "Electronics"
		desc := "100% pure_fun"
		laptop := &domain.Product{Name: "Laptop Pro", Description: &desc, Price: 1299.99, Quantity: 50, Category: &category, UserID: &owner.ID}
		require.NoError(t, products.Create(ctx, laptop))
		require.NotZero(t, laptop.ID)

		phone := &domain.Product{Name: "Smartphone X", Price: 899.99, Quantity: 100, Category: &category}
		require.NoError(t, products.Create(ctx, phone))

		got, err := products.GetByID(ctx, laptop.ID)
		require.NoError(t, err)
		require.Equal(t, "Laptop Pro", got.Name)
		require.InDelta(t, 1299.99, got.Price, 0.001)
		require.Equal(t, owner.ID, *got.UserID)

		listed, err := products.List(ctx, domain.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		require.Equal(t, phone.ID, listed[0].ID)

		byCategory, err := products.ListByCategory(ctx, "Electronics", domain.Page{Limit: 1})
		require.NoError(t, err)
		require.Len(t, byCategory, 1)

		found, err := products.Search(ctx, "laptop", domain.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = products.Search(ctx, "100%", domain.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = products.Search(ctx, "%", domain.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, found, 1)

		price := 999.0
		updated, err := products.Update(ctx, laptop.ID, domain.ProductPatch{Price: &price})
		require.NoError(t, err)
		require.InDelta(t, 999.0, updated.Price, 0.001)
		require.Equal(t, "Laptop Pro", updated.Name)
		require.Equal(t, desc, *updated.Description)

		_, err = products.Update(ctx, 99999, domain.ProductPatch{Price: &price})
		require.ErrorIs(t, err, domain.ErrProductNotFound)

		require.NoError(t, products.Delete(ctx, laptop.ID))
		require.ErrorIs(t, products.Delete(ctx, laptop.ID), domain.ErrProductNotFound)
		_, err = products.GetByID(ctx, laptop.ID)
		require.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
