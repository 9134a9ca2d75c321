package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fairgrounds/registration-service/internal/repository"
	apperrors "github.com/fairgrounds/registration-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware resolves the caller into a Principal. It never rejects a
// request by itself: missing, invalid, expired, or deactivated credentials
// all resolve to the anonymous principal, and the per-handler policy check
// decides what anonymous callers may do.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs the principal-resolution middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle loads the principal for the request, if any.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return c.Next()
	}

	user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
	if err != nil || !user.IsActive {
		// A deleted or deactivated account is treated as anonymous.
		return c.Next()
	}

	c.Locals(principalKey, &Principal{ID: user.ID, Role: user.Role, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal, or Anonymous.
func PrincipalFromContext(c *fiber.Ctx) Principal {
	val := c.Locals(principalKey)
	if val == nil {
		return Anonymous
	}
	principal, ok := val.(*Principal)
	if !ok {
		return Anonymous
	}
	return *principal
}

// Require runs the authorization policy for the request and returns the
// acting principal. Anonymous callers get UNAUTHORIZED, authenticated
// callers lacking the role get FORBIDDEN.
func Require(c *fiber.Ctx, action Action) (Principal, error) {
	principal := PrincipalFromContext(c)
	if Authorize(principal, action) == Allow {
		return principal, nil
	}
	if principal.IsAnonymous() {
		return Anonymous, apperrors.NewUnauthorized("authentication required")
	}
	return principal, apperrors.NewForbidden("insufficient role")
}
