package middleware

// identity.go attaches who is calling and from where to every request: the
// normalized client address, used as the rate limit key and in audit
// events, and a request scoped logger.

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/logging"
)

// ClientIP resolves the caller's address from X-Forwarded-For (first
// entry), X-Real-IP or the socket, strips the IPv4-mapped prefix and
// stores it on the request context and under "client_ip".
func ClientIP() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := clientIP(c)
			c.Set("client_ip", ip)
			req := c.Request()
			c.SetRequest(req.WithContext(booking.WithClientIP(req.Context(), ip)))
			return next(c)
		}
	}
}

func clientIP(c echo.Context) string {
	h := c.Request().Header
	if fwd := h.Get(echo.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return booking.NormalizeIP(first)
		}
	}
	if xr := strings.TrimSpace(h.Get(echo.HeaderXRealIP)); xr != "" {
		return booking.NormalizeIP(xr)
	}
	return booking.NormalizeIP(c.RealIP())
}

// RequestLogger attaches logger, tagged with the request id and client
// address, to the request context.  Must run after RequestID and ClientIP.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logger.With(
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", booking.ClientIP(req.Context()),
			)
			c.SetRequest(req.WithContext(logging.ContextWithLogger(req.Context(), l)))
			return next(c)
		}
	}
}

// userID returns the authenticated subject, or "guest".
func userID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "guest"
}
