package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
)

// forbidden and unauthenticated both render through the HTTP error handler.
func forbidden() error {
	return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
}

func unauthenticated() error {
	return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
}

// RequireStaff allows staff accounts only. Must run after Auth.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return unauthenticated()
			}
			if !claims.Principal.IsStaff && !claims.Principal.IsSuperuser {
				return forbidden()
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return unauthenticated()
			}
			if _, ok := allowed[claims.Principal.Role]; !ok {
				return forbidden()
			}
			return next(c)
		}
	}
}

// RequirePermission allows callers holding the codename. Superusers hold all.
func RequirePermission(codename string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return unauthenticated()
			}
			if !claims.Principal.HasPerm(codename) {
				return forbidden()
			}
			return next(c)
		}
	}
}
