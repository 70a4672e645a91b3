package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/catalog-api/internal/domain"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, h.Verify("s3cret!", hash))
	require.False(t, h.Verify("s3cret?", hash))
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestPasswordHasher_RejectsBadInput(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("a", 72))
	require.NoError(t, err)
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	require.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
	require.False(t, h.Verify("", "$2a$04$abcdefghijklmnopqrstuu"))
	require.False(t, h.Verify("pw", ""))
}

func TestPasswordHasher_Cost(t *testing.T) {
	require.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).Cost())
	require.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).Cost())
	require.Equal(t, 12, NewPasswordHasher(12).Cost())

	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasher_VerifyAgainstDummy(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	require.False(t, h.VerifyAgainstDummy("dummy-password-for-timing"))
	require.False(t, h.VerifyAgainstDummy("anything"))
}

func TestPasswordHasher_VerifyRejectsOverlong(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	pw := strings.Repeat("a", 72)

	hash, err := h.Hash(pw)
	require.NoError(t, err)
	require.True(t, h.Verify(pw, hash))

	require.False(t, h.Verify(pw+"EXTRA", hash))
	require.False(t, h.Verify(pw+"a", hash))
}
