package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-api/internal/domain"
	apperrors "github.com/spec-kit/catalog-api/pkg/util"
)

// RequireRole lets the request through only when the authenticated caller's role
// includes required. It must be mounted after AuthMiddleware.Handle.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(msgAuthRequired)
		}
		if !principal.Role().Includes(required) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireAuthenticated ensures a principal was attached.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized(msgAuthRequired)
		}
		return c.Next()
	}
}
