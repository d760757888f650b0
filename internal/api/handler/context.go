package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anik/storefront-api/internal/core/domain"
)

// principalFrom returns the Principal attached by the Authenticate middleware.
// Protected routes are already gated by the access policy, so a miss here
// means the route was wired without it.
func principalFrom(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// bindAndValidate binds path and query parameters (or the body) into dst and
// runs the struct validator. Failures become 400s.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
