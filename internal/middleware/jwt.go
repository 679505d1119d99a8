package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token.
// The token's subject and role are stored on the echo context under
// "user_id" and "role", and as the booking actor on the request context so
// the orchestrator can resolve who is calling.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.Subject)
			c.Set("role", claims.Role)
			req := c.Request()
			ctx := booking.WithActor(req.Context(), booking.Actor{ID: claims.Subject, Role: claims.Role})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
