package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UserHandler serves endpoints that only make sense for an authenticated
// caller.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /api/users/me.
//
// @Summary      Current principal
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, principalResponse{ID: p.SubjectID, Role: string(p.Role)})
}

// Protected handles GET /api/test/protected.
//
// @Summary      Authentication smoke test
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  errorResponse
// @Router       /api/test/protected [get]
func (h *UserHandler) Protected(c echo.Context) error {
	if _, err := principalFrom(c); err != nil {
		return err
	}
	return c.String(http.StatusOK, "You are authenticated")
}
