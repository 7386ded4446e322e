package middleware

import (
	"net/http"

	"rentalcv/internal/common"
	"rentalcv/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole restricts a route to users holding one of the given roles.
// Admins pass every check.
func RequireRole(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			role, ok := common.GetUserRoleFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Role not found")
			}
			if role == models.RoleAdmin {
				return next(c)
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
