// Package seed loads the demo catalogue: the school's rooms, three
// administrator accounts and two reservations for the current day.  Every
// step is idempotent so the seed can run on each start.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/schedule"
	"github.com/iliyamo/room-reservation/internal/validation"
)

type roomDef struct {
	name     string
	building string
	capacity int
	location string
}

var rooms = []roomDef{
	{"1 - Amphithéâtre", "Amphithéâtre", 150, ""},
	{"2 - Petite salle (Ex-salle des profs)", "Bâtiment C", 20, ""},
	{"3 - S1 grande salle 1er étage", "Bâtiment C", 60, "1er étage"},
	{"4 - S1 moyenne salle 2e étage", "Bâtiment C", 30, "2e étage"},
	{"5 - S1 petite salle 3e étage", "Bâtiment C", 20, "3e étage"},
	{"6 - Petite salle (ex-secretariat)", "Bâtiment B", 20, ""},
	{"7 - S2 grande salle 1er étage", "Bâtiment C", 60, "1er étage"},
	{"8 - S2 moyenne salle 2e étage", "Bâtiment C", 30, "2e étage"},
	{"9 - S2 petite salle 3e étage", "Bâtiment C", 20, "3e étage"},
	{"10 - S2 petite salle (Ex-comptabilité)", "Bâtiment B", 20, ""},
	{"11 - Petite salle (salle de reunion)", "Bâtiment C", 20, ""},
	{"12 - Grande salle (rez-de-chaussée)", "Bâtiment C", 60, "rez-de-chaussée"},
}

var admins = []struct{ email, name string }{
	{"directeur@uniroom.school", "Directeur UNIROOM"},
	{"cpe@uniroom.school", "Conseiller Principal d'Education"},
	{"secretaire@uniroom.school", "Secrétaire UNIROOM"},
}

// Category derives the room category from its name, building and size.
func Category(name, building string, capacity int) string {
	if strings.Contains(strings.ToLower(name), "amphithéâtre") {
		return "amphithéâtre"
	}
	if building == "Bâtiment C" {
		switch {
		case capacity >= 60:
			return "grande salle"
		case capacity == 30:
			return "salle moyenne"
		}
	}
	return "petite salle"
}

// Seeder writes the demo data through the repositories and the booking
// service, so demo reservations obey the same rules as user ones.
type Seeder struct {
	Rooms      *repository.RoomRepo
	Users      *repository.UserRepo
	Bookings   *booking.Service
	BcryptCost int
	Clock      schedule.Clock
	Logger     *slog.Logger
}

// Run seeds rooms, administrators and today's demo reservations.
func (s *Seeder) Run(ctx context.Context, adminPassword string) error {
	roomIDs, err := s.rooms(ctx)
	if err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	userIDs, err := s.admins(ctx, adminPassword)
	if err != nil {
		return fmt.Errorf("seed admins: %w", err)
	}
	return s.reservations(ctx, roomIDs, userIDs)
}

func (s *Seeder) rooms(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string, len(rooms))
	for _, def := range rooms {
		existing, err := s.Rooms.GetByName(ctx, def.name)
		if err == nil {
			ids[def.name] = existing.ID
			continue
		}
		if !errors.Is(err, repository.ErrRoomNotFound) {
			return nil, err
		}
		category := Category(def.name, def.building, def.capacity)
		room := &model.Room{Name: def.name, Capacity: def.capacity, Building: def.building, Category: &category}
		if def.location != "" {
			loc := def.location
			room.Location = &loc
		}
		if err := s.Rooms.Create(ctx, room); err != nil {
			return nil, err
		}
		ids[def.name] = room.ID
	}
	return ids, nil
}

func (s *Seeder) admins(ctx context.Context, password string) (map[string]string, error) {
	ids := make(map[string]string, len(admins))
	for _, a := range admins {
		id, err := s.Users.Create(ctx, a.name, a.email, password, model.RoleAdmin, s.BcryptCost)
		if errors.Is(err, repository.ErrEmailExists) {
			u, gerr := s.Users.GetByEmail(ctx, a.email)
			if gerr != nil {
				return nil, gerr
			}
			id, err = u.ID, nil
		}
		if err != nil {
			return nil, err
		}
		ids[a.email] = id
	}
	return ids, nil
}

// reservations books the two demo slots for today.  A slot that is already
// taken is left alone.
func (s *Seeder) reservations(ctx context.Context, roomIDs, userIDs map[string]string) error {
	today := s.Bookings.Calendar().Today(s.now())
	note1, note2 := "Préparation des emplois du temps.", "Brief quotidien avec le CPE."
	demo := []struct {
		owner string
		in    validation.Input
	}{
		{userIDs["directeur@uniroom.school"], validation.Input{
			RoomID: roomIDs["11 - Petite salle (salle de reunion)"], Date: today, Start: "09:00", End: "10:00",
			Title: "Réunion pédagogique", Objective: "Reunion", ParticipantGroup: "Equipe pedagogique", Note: &note1,
		}},
		{userIDs["cpe@uniroom.school"], validation.Input{
			RoomID: roomIDs["1 - Amphithéâtre"], Date: today, Start: "14:00", End: "15:30",
			Title: "Accueil des étudiants", Objective: "Reunion", ParticipantGroup: "Conseil de vie scolaire", Note: &note2,
		}},
	}
	for _, d := range demo {
		_, err := s.Bookings.CreateFor(ctx, d.owner, d.in)
		switch {
		case err == nil, errors.Is(err, booking.ErrSlotConflict):
		default:
			var verr *validation.Error
			if errors.As(err, &verr) {
				// past the opening window or similar; nothing to seed today
				s.logger().Info("demo reservation skipped", "title", d.in.Title, "reason", verr.Error())
				continue
			}
			return fmt.Errorf("seed reservation %q: %w", d.in.Title, err)
		}
	}
	return nil
}

func (s *Seeder) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Seeder) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
