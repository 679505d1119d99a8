package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/schedule"
)

// RoomHandler serves the room catalogue, day grids and the slot list.
type RoomHandler struct {
	Rooms *repository.RoomRepo
	Svc   *booking.Service
}

func NewRoomHandler(rooms *repository.RoomRepo, svc *booking.Service) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Svc: svc}
}

// ListRooms returns every room ordered by name.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// GetRoom returns one room.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrRoomNotFound) {
		return writeError(c, booking.ErrRoomNotFound)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Schedule returns the day grid of a room: its slots and the reservations
// of ?date= (today when absent) with their lane placement.
func (h *RoomHandler) Schedule(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	day, err := h.Svc.Schedule(ctx, c.Param("id"), c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, day)
}

type slotView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Slots lists the bookable slots of ?date= (today when absent).  ?step=
// overrides the configured slot length in minutes.
func (h *RoomHandler) Slots(c echo.Context) error {
	cal := h.Svc.Calendar()
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = cal.Today(time.Now())
	}
	day, err := cal.DayStart(date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	step := cal.SlotMinutes()
	if raw := c.QueryParam("step"); raw != "" {
		if step, err = strconv.Atoi(raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid step"})
		}
	}

	slots, err := cal.GenerateSlots(day, step)
	if errors.Is(err, schedule.ErrInvalidStep) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err != nil {
		return writeError(c, err)
	}
	items := make([]slotView, len(slots))
	for i, s := range slots {
		items[i] = slotView{Start: s.Start, End: s.End, Label: cal.ToHHMM(s.Start) + " - " + cal.ToHHMM(s.End)}
	}
	return c.JSON(http.StatusOK, echo.Map{"date": cal.FormatDate(day), "items": items})
}
