package booking

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/iliyamo/room-reservation/internal/layout"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/schedule"
	"github.com/iliyamo/room-reservation/internal/validation"
)

// ErrRangeRequired is returned by ListRange when either bound is missing.
var ErrRangeRequired = errors.New("start and end parameters are required")

// Get returns one reservation with its room and owner.
func (s *Service) Get(ctx context.Context, id string) (*model.ReservationDetail, error) {
	d, err := s.reservations.GetDetail(ctx, nil, id)
	if errors.Is(err, repository.ErrReservationNotFound) {
		return nil, ErrNotFound
	}
	return d, err
}

// ListRange returns reservations booked on days from start to end, both
// YYYY-MM-DD and inclusive, optionally for one room.
func (s *Service) ListRange(ctx context.Context, start, end, roomID string) ([]model.ReservationDetail, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, ErrRangeRequired
	}
	cal := s.Calendar()
	from, err := cal.DayStart(start)
	if err != nil {
		return nil, validation.NewError("start", validation.CodeInvalidDate, "invalid date")
	}
	last, err := cal.DayStart(end)
	if err != nil {
		return nil, validation.NewError("end", validation.CodeInvalidDate, "invalid date")
	}
	if last.Before(from) {
		return nil, validation.NewError("end", validation.CodeInvalidOrder, "end date must not be before start date")
	}
	return s.reservations.ListRange(ctx, from, last.AddDate(0, 0, 1), strings.TrimSpace(roomID))
}

// ListMine returns the ambient actor's reservations, most recent first.
func (s *Service) ListMine(ctx context.Context, limit int) ([]model.ReservationDetail, error) {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.reservations.ListByUser(ctx, actor.ID, limit)
}

// Tile is a reservation placed on a room-day grid.
type Tile struct {
	model.ReservationDetail
	DisplayTitle   string `json:"displayTitle"`
	SecondaryLabel string `json:"secondaryLabel,omitempty"`
	Lane           int    `json:"lane"`
	LaneCount      int    `json:"laneCount"`
}

// DaySchedule is what a room looks like on one day.
type DaySchedule struct {
	Room  model.Room      `json:"room"`
	Date  string          `json:"date"`
	Slots []schedule.Slot `json:"slots"`
	Tiles []Tile          `json:"reservations"`
}

// Schedule builds the grid of room roomID for date (today when empty).
func (s *Service) Schedule(ctx context.Context, roomID, date string) (*DaySchedule, error) {
	cal := s.Calendar()
	if strings.TrimSpace(date) == "" {
		date = cal.Today(s.clock.Now())
	}
	day, err := cal.DayStart(date)
	if err != nil {
		return nil, validation.NewError("date", validation.CodeInvalidDate, "invalid date")
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	slots, err := cal.GenerateSlots(day, cal.SlotMinutes())
	if err != nil {
		return nil, err
	}
	list, err := s.reservations.ListRange(ctx, day, day.AddDate(0, 0, 1), roomID)
	if err != nil {
		return nil, err
	}

	placed := layout.AssignLanes(list)
	tiles := make([]Tile, len(placed))
	for i, p := range placed {
		tiles[i] = Tile{
			ReservationDetail: p.Item,
			DisplayTitle:      layout.DisplayTitle(p.Item.Title, p.Item.Objective, p.Item.ParticipantGroup),
			SecondaryLabel:    layout.SecondaryLabel(p.Item.Objective, p.Item.ParticipantGroup),
			Lane:              p.Lane,
			LaneCount:         p.LaneCount,
		}
	}
	return &DaySchedule{Room: *room, Date: cal.FormatDate(day), Slots: slots, Tiles: tiles}, nil
}

// Dashboard summarizes room usage at the current instant.
type Dashboard struct {
	TotalRooms    int                       `json:"totalRooms"`
	OccupiedRooms int                       `json:"occupiedRooms"`
	FreeRooms     int                       `json:"freeRooms"`
	OccupancyRate float64                   `json:"occupancyRate"`
	Today         []model.ReservationDetail `json:"today"`
	Upcoming      []model.ReservationDetail `json:"upcoming"`
}

// Dashboard reports how many rooms are in use now, today's reservations
// and the next six to come.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	cal := s.Calendar()
	now := s.clock.Now()
	today, err := cal.DayStart(cal.Today(now))
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	occupied, err := s.reservations.OccupiedRoomIDs(ctx, now)
	if err != nil {
		return nil, err
	}
	todays, err := s.reservations.ListRange(ctx, today, today.AddDate(0, 0, 1), "")
	if err != nil {
		return nil, err
	}
	upcoming, err := s.reservations.ListUpcoming(ctx, now, 6)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalRooms:    len(rooms),
		OccupiedRooms: len(occupied),
		FreeRooms:     max(len(rooms)-len(occupied), 0),
		Today:         todays,
		Upcoming:      upcoming,
	}
	if d.TotalRooms > 0 {
		d.OccupancyRate = math.Min(float64(d.OccupiedRooms)/float64(d.TotalRooms)*100, 100)
	}
	return d, nil
}
