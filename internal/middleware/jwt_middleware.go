package middleware

import (
	"strings"

	"storerate/internal/apperrors"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	claimsKey = "claims"

	// TokenHeader carries a raw token when Authorization is absent.
	TokenHeader = "x-access-token"
)

var errNoToken = apperrors.New(apperrors.ErrUnauthenticated, "No token, authorization denied")

// TokenValidator decodes a signed token into claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// It accepts "Authorization: Bearer <token>", a raw token in Authorization,
// or a raw token in x-access-token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return reject(c, errNoToken)
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			log.WithField("path", c.Path()).Debugf("JWT validation failed: %v", err)
			return reject(c, apperrors.Wrap(apperrors.ErrUnauthenticated, "Token is not valid", err))
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		token = strings.TrimSpace(c.Get(TokenHeader))
	}
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// ClaimsFrom returns the claims AuthRequired attached to c, or nil.
func ClaimsFrom(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}
