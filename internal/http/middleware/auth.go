package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	"toolszone/internal/auth"
	"toolszone/internal/domain"
)

const claimsKey = "claims"

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Bearer requires a valid "Authorization: Bearer <token>" header and stores
// the verified claims on the request.
func Bearer(tokens TokenVerifier) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			claims, err := tokens.Verify(key)
			if err != nil {
				return false, err
			}
			c.Locals(claimsKey, claims)
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// keyauth may pass a nil error.
			if err == nil || errors.Is(err, keyauth.ErrMissingOrMalformedAPIKey) {
				return domain.ErrMissingToken
			}
			var de *domain.Error
			if errors.As(err, &de) {
				return de
			}
			return &domain.Error{Kind: domain.KindUnauthorized, Message: domain.ErrInvalidToken.Message, Err: err}
		},
	})
}

// RequireRole rejects callers whose token does not carry one of roles.
// It must run after Bearer.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return domain.ErrMissingToken
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return &domain.Error{Kind: domain.KindForbidden, Message: "Forbidden"}
	}
}

// ClaimsFrom returns the claims stored by Bearer.
func ClaimsFrom(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
