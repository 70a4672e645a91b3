package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-api/internal/domain"
	apperrors "github.com/spec-kit/catalog-api/pkg/util"
)

const principalKey = "auth_principal"

const (
	msgAuthRequired = "authentication required"
	msgInvalidToken = "invalid or expired token"
)

// Principal represents the authenticated caller.
type Principal struct {
	Identity *domain.Identity
}

// Role is a shortcut for the caller's role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.Identity == nil {
		return ""
	}
	return p.Identity.Role
}

// IdentityValidator resolves a bearer token to a live identity.
type IdentityValidator interface {
	Validate(ctx context.Context, token string) (*domain.Identity, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	validator IdentityValidator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(validator IdentityValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized(msgAuthRequired)
	}

	identity, err := m.validator.Validate(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return apperrors.NewUnauthorized(msgInvalidToken)
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Identity: identity})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	if !ok || principal.Identity == nil {
		return nil, false
	}
	return principal, true
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
