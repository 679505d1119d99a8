package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/logging"
	"github.com/iliyamo/room-reservation/internal/ratelimit"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/validation"
)

// writeError maps a booking failure onto an HTTP status and a JSON body of
// the form {"error": message}.  Validation failures also carry the code of
// the governing rule and the full issue list.
func writeError(c echo.Context, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		body := echo.Map{"error": verr.Error(), "issues": verr.Issues}
		if len(verr.Issues) > 0 {
			body["code"] = verr.Issues[0].Code
		}
		return c.JSON(http.StatusBadRequest, body)
	}

	var rerr *ratelimit.Error
	if errors.As(err, &rerr) {
		secs := rerr.RetryAfter(time.Now())
		c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error":      "too many requests, please wait before retrying",
			"retryAfter": secs,
		})
	}

	switch {
	case errors.Is(err, validation.ErrEmptyAfterSanitization),
		errors.Is(err, booking.ErrRangeRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case repository.IsTransient(err):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database busy, please retry"})
	}

	logging.FromContext(c.Request().Context()).Error("request failed",
		"method", c.Request().Method, "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
