package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
	"github.com/99minutos/inventory-system/internal/pkg/metrics"
)

const (
	bearerPrefix = "Bearer "
	userKey      = "user"
)

// Authenticate resolves the bearer token to a stored user and injects it into
// the context. A missing or malformed header fails with domain.ErrUnauthorized;
// resolution errors (unknown token, invalid token) are passed through.
func Authenticate(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthorizationDenialsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrUnauthorized
			}

			user, err := resolver.ResolveToken(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUserNotFound):
					metrics.AuthorizationDenialsTotal.WithLabelValues("unknown_token").Inc()
				case errors.Is(err, domain.ErrInvalidToken):
					metrics.AuthorizationDenialsTotal.WithLabelValues("invalid_token").Inc()
				}
				return err
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Authenticate, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}

// SetCurrentUser injects user as the resolved identity.
func SetCurrentUser(c echo.Context, user *domain.User) {
	c.Set(userKey, user)
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
