package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/pkg/logging"
	"github.com/massitfab/marketplace/pkg/tokens"
)

const UserIDKey = "user_id"

// RequireAuth rejects requests the verifier does not accept and stores the
// authenticated user id under UserIDKey.
func RequireAuth(v tokens.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			id, err := v.Verify(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				var ae *tokens.AuthError
				if errors.As(err, &ae) {
					return echo.NewHTTPError(http.StatusUnauthorized, ae.Reason)
				}
				logging.FromContext(ctx).Warn("auth_verify_failed", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			c.Set(UserIDKey, id)
			return next(c)
		}
	}
}

// UserID returns the id stored by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey).(uint)
	return id, ok && id != 0
}
