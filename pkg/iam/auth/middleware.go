package auth

import (
	"strings"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/iam/user"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext is what handlers see of the authenticated caller
type AuthContext struct {
	UserID    kernel.UserID
	Email     kernel.Email
	Role      user.Role
	TokenID   string
	ExpiresAt time.Time
}

func (a *AuthContext) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

type AuthMiddleware struct {
	tokens      *TokenService
	revocations RevocationStore
}

func NewAuthMiddleware(tokens *TokenService, revocations RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

// Authenticate validates the bearer token and stores an AuthContext in locals
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return ErrMissingToken()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return ErrInvalidToken().WithDetail("reason", "expected Bearer token")
		}

		claims, err := m.tokens.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		revoked, err := m.revocations.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			logx.Errorf("Revocation check failed for token %s: %v", claims.ID, err)
			return errx.Wrap(err, "failed to check token", errx.TypeInternal)
		}
		if revoked {
			return ErrTokenRevoked()
		}

		c.Locals(authContextKey, &AuthContext{
			UserID:    claims.UserID,
			Email:     claims.Email,
			Role:      claims.Role,
			TokenID:   claims.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		})
		return c.Next()
	}
}

// RequireRole must run after Authenticate
func (m *AuthMiddleware) RequireRole(roles ...user.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		for _, r := range roles {
			if authCtx.Role == r {
				return c.Next()
			}
		}
		return ErrInsufficientRole().WithDetail("role", authCtx.Role)
	}
}

// GetAuthContext extracts the caller from fiber locals
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(*AuthContext)
	return authCtx, ok && authCtx != nil
}
