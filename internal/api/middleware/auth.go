package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// ClaimsKey is the echo context key holding *ports.TokenClaims.
const ClaimsKey = "auth_claims"

// TokenParser resolves a bearer token to the caller's claims.
type TokenParser interface {
	ParseToken(ctx context.Context, raw string) (*ports.TokenClaims, error)
}

// Auth validates a bearer token when one is present and injects the claims
// into context. Anonymous requests pass through; a present but invalid token
// is rejected with 401. Pair with RequireAuth on protected routes.
func Auth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := authenticate(c, parser)
			if err != nil {
				return err
			}
			if claims != nil {
				c.Set(ClaimsKey, claims)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with 401. Must run after Auth.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := Claims(c); !ok {
				return unauthenticated()
			}
			return next(c)
		}
	}
}

// Claims returns the claims set by Auth.
func Claims(c echo.Context) (*ports.TokenClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*ports.TokenClaims)
	return claims, ok && claims != nil
}

func authenticate(c echo.Context, parser TokenParser) (*ports.TokenClaims, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := parser.ParseToken(c.Request().Context(), strings.TrimSpace(parts[1]))
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, domain.ErrTokenRevoked):
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenRevoked.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	default:
		return nil, err
	}
}
