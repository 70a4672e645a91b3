package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/catalog-api/internal/auth"
	"github.com/spec-kit/catalog-api/internal/config"
	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/testutil"
)

func TestSeeder_Run(t *testing.T) {
	users := testutil.NewUserStore()
	products := testutil.NewProductStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	s := New(users, products, hasher, testutil.MakeNoopLogger())
	ctx := context.Background()

	accounts := DefaultAccounts(config.SeedConfig{AdminPassword: "admin-pw", UserPassword: "user-pw"})
	require.NoError(t, s.Run(ctx, accounts))

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.True(t, hasher.Verify("admin-pw", admin.PasswordHash))

	user, err := users.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)

	listed, err := products.List(ctx, domain.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 4)

	// Running again changes nothing.
	require.NoError(t, s.Run(ctx, accounts))
	require.Equal(t, 2, users.Len())
	listed, err = products.List(ctx, domain.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 4)
}

func TestSeeder_RejectsEmptyPassword(t *testing.T) {
	s := New(testutil.NewUserStore(), testutil.NewProductStore(), auth.NewPasswordHasher(bcrypt.MinCost), testutil.MakeNoopLogger())

	err := s.Run(context.Background(), []Account{{Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin}})
	require.ErrorIs(t, err, auth.ErrEmptyPassword)
}
