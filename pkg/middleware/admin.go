package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

// AdminOnly checks that the authenticated user carries the admin role. The
// role comes from the access token, so a role change takes effect on the
// next login or refresh, not retroactively.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get(string(constant.CtxKeyUserRole))

			if role == nil {
				return response.Error(c, http.StatusUnauthorized, "unauthorized", "missing role information")
			}

			userRole, ok := role.(string)
			if !ok || userRole != constant.RoleAdmin {
				return response.Error(c, http.StatusForbidden, "forbidden", "admin access required")
			}

			return next(c)
		}
	}
}
