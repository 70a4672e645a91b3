package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Includes(t *testing.T) {
	tests := []struct {
		have, need Role
		want       bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, true},
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{Role("root"), RoleUser, false},
		{RoleAdmin, Role(""), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.have.Includes(tt.need), "%q includes %q", tt.have, tt.need)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestError_Kinds(t *testing.T) {
	require.ErrorIs(t, ErrEmailTaken, ErrConflict)
	require.ErrorIs(t, ErrInvalidCredentials, ErrUnauthenticated)
	require.ErrorIs(t, ErrInvalidToken, ErrUnauthenticated)
	require.ErrorIs(t, ErrProductNotFound, ErrNotFound)
	require.False(t, errors.Is(ErrEmailTaken, ErrUsernameTaken))
	require.Equal(t, "email already registered", ErrEmailTaken.Error())
}

func TestUser_IdentityOmitsHash(t *testing.T) {
	u := &User{ID: 7, Username: "alice", Email: "alice@x.io", PasswordHash: "$2a$10$...", Role: RoleUser}
	id := u.Identity()
	require.Equal(t, int64(7), id.ID)
	require.Equal(t, "alice", id.Username)
	require.Equal(t, RoleUser, id.Role)
}

func TestProductPatch(t *testing.T) {
	require.True(t, ProductPatch{}.Empty())

	name := "Desk"
	price := 12.5
	patch := ProductPatch{Name: &name, Price: &price}
	require.False(t, patch.Empty())

	category := "Furniture"
	p := &Product{Name: "Table", Price: 10, Quantity: 3, Category: &category}
	patch.Apply(p)
	require.Equal(t, "Desk", p.Name)
	require.Equal(t, 12.5, p.Price)
	require.Equal(t, 3, p.Quantity)
	require.Equal(t, "Furniture", *p.Category)
}

func TestPage_Normalize(t *testing.T) {
	require.Equal(t, Page{Limit: DefaultPageLimit}, Page{}.Normalize())
	require.Equal(t, Page{Limit: MaxPageLimit, Offset: 0}, Page{Limit: 1000, Offset: -4}.Normalize())
	require.Equal(t, Page{Limit: 5, Offset: 20}, Page{Limit: 5, Offset: 20}.Normalize())
}
