package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-admin/internal/client"
	"github.com/spec-kit/employee-admin/internal/domain"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
	Roles   RoleSet
	// Token is forwarded to the backend on credentialed requests.
	Token string
}

// HasAnyRoles implements RoleChecker.
func (p *Principal) HasAnyRoles(roles ...domain.Role) bool {
	if p == nil {
		return false
	}
	return p.Roles.HasAnyRoles(roles...)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.UserName
	}
	principal := &Principal{
		Subject: subject,
		Roles:   RoleSet(claims.Authorities),
		Token:   parts[1],
	}

	c.Locals(principalKey, principal)
	c.SetUserContext(client.WithToken(c.UserContext(), principal.Token))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
