package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/api/middleware"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. A handler
// mounted without Auth fails closed with 401.
func ctxClaims(c echo.Context) (*ports.TokenClaims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return domain.Principal{}, err
	}
	return claims.Principal, nil
}

// pathID parses a numeric path parameter; anything else is a 404, matching
// an unmatched route.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(id), nil
}

// bind decodes the body and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
