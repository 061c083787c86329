package middleware

import (
	"net/http"

	"freshmart/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Get(CtxIdentityKey)
			identity, ok := raw.(model.Identity)
			if !ok || identity.ID == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("not authenticated"))
			}

			//USERは拒否、ADMINだけ許可
			if !identity.IsAdmin() {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
