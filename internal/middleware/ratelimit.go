package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/logging"
	"github.com/iliyamo/room-reservation/internal/ratelimit"
)

// RateLimit enforces rule per client address under "<action>:<ip>".  It
// must run after ClientIP.  A nil limiter disables it; a failing backend
// lets requests through.
func RateLimit(l ratelimit.Limiter, action string, rule ratelimit.Rule) echo.MiddlewareFunc {
	if l == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := action + ":" + booking.ClientIP(ctx)

			res, err := l.Consume(ctx, key, rule)
			if err != nil {
				logging.FromContext(ctx).Warn("rate limiter unavailable", "key", key, "err", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Success {
				rerr := &ratelimit.Error{Key: key, ResetAt: res.ResetAt}
				secs := rerr.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(secs))
				logging.FromContext(ctx).Warn("rate limit reached", "key", key, "user", userID(c))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":      "too many requests, please wait before retrying",
					"retryAfter": secs,
				})
			}
			return next(c)
		}
	}
}
