package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-system/internal/api/middleware"
	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
)

// ctxActor returns the identity injected by the Authenticate middleware.
// Its absence means the route was mounted without authentication, which is
// reported as 401 rather than trusted.
func ctxActor(c echo.Context) (ports.Actor, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return ports.Actor{}, domain.ErrUnauthorized
	}
	return ports.Actor{ID: user.ID, Role: user.Role}, nil
}
