package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/pkg/metrics"
)

// RBAC enforces role-based access control on top of Authenticate. action is
// the phrase used in the denial message ("<user> with <role> role not
// authorized to <action>").
func RBAC(action string, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrUnauthorized
			}
			if _, ok := allowed[user.Role]; !ok {
				metrics.AuthorizationDenialsTotal.WithLabelValues("forbidden_role").Inc()
				return &domain.ForbiddenError{Username: user.Username, Role: user.Role, Action: action}
			}
			return next(c)
		}
	}
}
