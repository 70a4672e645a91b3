package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/catalog-api/internal/domain"
)

// DefaultBcryptCost is used when the configured cost is outside bcrypt's range.
const DefaultBcryptCost = 10

// bcrypt ignores everything past 72 bytes; longer input is refused instead.
const maxPasswordBytes = 72

var (
	ErrEmptyPassword   = domain.NewError(domain.ErrInvalidInput, "password is required")
	ErrPasswordTooLong = domain.NewError(domain.ErrInvalidInput, "password must be at most 72 bytes")
)

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordHasher builds a hasher with the given work factor.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the work factor in use.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash hashes a plaintext password with a fresh salt.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hashed. A mismatch or a malformed hash is
// false, not an error. Input Hash would refuse never matches, since bcrypt
// would otherwise compare only its first 72 bytes.
func (h *PasswordHasher) Verify(plain, hashed string) bool {
	if plain == "" || hashed == "" || len(plain) > maxPasswordBytes {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

// VerifyAgainstDummy burns one comparison against a throwaway hash so a lookup
// miss costs as much as a wrong password. It always returns false.
func (h *PasswordHasher) VerifyAgainstDummy(plain string) bool {
	h.dummyOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), h.cost)
		if err == nil {
			h.dummyHash = hashed
		}
	})
	if h.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plain))
	}
	return false
}
