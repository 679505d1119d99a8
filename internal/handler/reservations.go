package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/audit"
	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/validation"
)

// ReservationHandler exposes the booking service over HTTP.  Every route
// sits behind JWTAuth, so the service finds the actor on the request
// context.
type ReservationHandler struct {
	Svc *booking.Service
}

func NewReservationHandler(svc *booking.Service) *ReservationHandler {
	return &ReservationHandler{Svc: svc}
}

// reservationReq is the create/update body.  UserID lets an administrator
// book on behalf of someone else; it is ignored on update.
type reservationReq struct {
	validation.Input
	UserID string `json:"userId,omitempty"`
}

// List returns the reservations between ?start= and ?end= (inclusive
// YYYY-MM-DD days), optionally narrowed to ?roomId=.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Svc.ListRange(ctx, c.QueryParam("start"), c.QueryParam("end"), c.QueryParam("roomId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Mine returns the caller's own reservations, newest first.
func (h *ReservationHandler) Mine(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Svc.ListMine(ctx, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one reservation with its room and owner.
func (h *ReservationHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Create books a room.  Returns 201 with the stored reservation.
func (h *ReservationHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, h.Svc.RejectMalformed(ctx, audit.ActionCreate))
	}
	r, err := h.Svc.CreateFor(ctx, strings.TrimSpace(req.UserID), req.Input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Update replaces the fields of an existing reservation.
func (h *ReservationHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, h.Svc.RejectMalformed(ctx, audit.ActionUpdate))
	}
	r, err := h.Svc.Update(ctx, c.Param("id"), req.Input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Delete cancels a reservation.
func (h *ReservationHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// Dashboard returns the occupancy summary.
func (h *ReservationHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
