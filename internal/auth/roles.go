package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-admin/internal/domain"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

// RoleChecker answers capability questions about the current caller.
type RoleChecker interface {
	HasAnyRoles(roles ...domain.Role) bool
}

// RoleSet is a RoleChecker over a fixed list of roles.
type RoleSet []domain.Role

// HasAnyRoles implements RoleChecker.
func (s RoleSet) HasAnyRoles(roles ...domain.Role) bool {
	for _, want := range roles {
		for _, have := range s {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RequireAnyRole ensures the principal holds at least one of the allowed roles.
// With no roles it only requires authentication.
func RequireAnyRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if !principal.HasAnyRoles(allowed...) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
