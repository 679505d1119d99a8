// Package booking orchestrates reservation mutations.  Each create, update
// or delete is rate limited, validated, authorized and then written in a
// single store transaction that re-checks for overlapping bookings of the
// room before the write.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/room-reservation/internal/audit"
	"github.com/iliyamo/room-reservation/internal/logging"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/ratelimit"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/schedule"
	"github.com/iliyamo/room-reservation/internal/validation"
)

// DefaultRule is the per-address limit on reservation mutations.
var DefaultRule = ratelimit.Rule{Limit: 30, Window: time.Minute}

// Deps groups the collaborators of a Service.  Limiter and Audit may be
// nil; RateRule defaults to DefaultRule.
type Deps struct {
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Users        *repository.UserRepo
	Validator    *validation.Validator
	Limiter      ratelimit.Limiter
	RateRule     ratelimit.Rule
	Audit        audit.Emitter
	Clock        schedule.Clock
	Logger       *slog.Logger
}

// Service is the reservation orchestrator.  It holds no mutable state and
// is safe for concurrent use.
type Service struct {
	reservations *repository.ReservationRepo
	rooms        *repository.RoomRepo
	users        *repository.UserRepo
	validator    *validation.Validator
	limiter      ratelimit.Limiter
	rule         ratelimit.Rule
	audit        audit.Emitter
	clock        schedule.Clock
	logger       *slog.Logger
}

// NewService builds a Service from d.
func NewService(d Deps) *Service {
	s := &Service{
		reservations: d.Reservations,
		rooms:        d.Rooms,
		users:        d.Users,
		validator:    d.Validator,
		limiter:      d.Limiter,
		rule:         d.RateRule,
		audit:        d.Audit,
		clock:        d.Clock,
		logger:       d.Logger,
	}
	if s.rule.Limit == 0 {
		s.rule = DefaultRule
	}
	if s.audit == nil {
		s.audit = audit.Nop{}
	}
	if s.clock == nil {
		s.clock = schedule.RealClock{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Calendar returns the calendar reservations are validated against.
func (s *Service) Calendar() *schedule.Calendar { return s.validator.Calendar() }

func (s *Service) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := s.logger
	if l := logging.FromContext(ctx); l != slog.Default() {
		logger = l
	}
	return logger.With(append([]any{"service", "booking", "operation", operation}, attrs...)...)
}

// Create books a room for the ambient actor.
func (s *Service) Create(ctx context.Context, in validation.Input) (*model.ReservationDetail, error) {
	return s.create(ctx, "", in)
}

// CreateFor books a room on behalf of ownerID.  An ambient actor other
// than ownerID must be an administrator.  Without an ambient actor the
// owner is taken as the actor, which is how in-process callers such as
// seeding book rooms.
func (s *Service) CreateFor(ctx context.Context, ownerID string, in validation.Input) (*model.ReservationDetail, error) {
	return s.create(ctx, ownerID, in)
}

func (s *Service) create(ctx context.Context, ownerID string, in validation.Input) (*model.ReservationDetail, error) {
	ip := ClientIP(ctx)
	if err := s.enforceRate(ctx, ip, audit.ActionCreate); err != nil {
		return nil, err
	}

	r, err := s.validator.Validate(in)
	if err != nil {
		return nil, err
	}

	actor, owner, err := s.resolveOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var created *model.ReservationDetail
	err = s.reservations.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.rooms.LockTx(ctx, tx, r.RoomID); err != nil {
			return err
		}
		overlap, err := s.reservations.HasOverlapTx(ctx, tx, overlapQuery(r, ""))
		if err != nil {
			return err
		}
		if overlap {
			return ErrSlotConflict
		}
		res := toModel(r)
		res.UserID = owner
		if err := s.reservations.CreateTx(ctx, tx, &res); err != nil {
			return err
		}
		created, err = s.reservations.GetDetail(ctx, tx, res.ID)
		return err
	})
	if err != nil {
		return nil, s.translate(ctx, "create", err)
	}

	s.emit(ctx, audit.ActionCreate, created.ID, actor.ID, ip)
	return created, nil
}

// Update replaces the room, time range and content of reservation id.
// Only the owner or an administrator may update it.
func (s *Service) Update(ctx context.Context, id string, in validation.Input) (*model.ReservationDetail, error) {
	ip := ClientIP(ctx)
	if err := s.enforceRate(ctx, ip, audit.ActionUpdate); err != nil {
		return nil, err
	}

	r, err := s.validator.Validate(in)
	if err != nil {
		return nil, err
	}

	actor, ok := ActorFrom(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var updated *model.ReservationDetail
	err = s.reservations.WithTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.reservations.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(existing.UserID) {
			return ErrForbidden
		}
		if err := s.rooms.LockTx(ctx, tx, r.RoomID); err != nil {
			return err
		}
		overlap, err := s.reservations.HasOverlapTx(ctx, tx, overlapQuery(r, id))
		if err != nil {
			return err
		}
		if overlap {
			return ErrSlotConflict
		}

		next := toModel(r)
		next.ID = existing.ID
		next.UserID = existing.UserID
		if err := s.reservations.UpdateTx(ctx, tx, &next); err != nil {
			return err
		}
		updated, err = s.reservations.GetDetail(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, s.translate(ctx, "update", err)
	}

	s.emit(ctx, audit.ActionUpdate, updated.ID, actor.ID, ip)
	return updated, nil
}

// Delete removes reservation id and returns its identifier.  Only the
// owner or an administrator may delete it.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	ip := ClientIP(ctx)
	if err := s.enforceRate(ctx, ip, audit.ActionDelete); err != nil {
		return "", err
	}

	actor, ok := ActorFrom(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}

	err := s.reservations.WithTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.reservations.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(existing.UserID) {
			return ErrForbidden
		}
		return s.reservations.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return "", s.translate(ctx, "delete", err)
	}

	s.emit(ctx, audit.ActionDelete, id, actor.ID, ip)
	return id, nil
}

// RejectMalformed reports a request body that could not be decoded.  It
// still consumes the caller's rate limit for action, so undecodable bodies
// count like any other attempt.
func (s *Service) RejectMalformed(ctx context.Context, action audit.Action) error {
	if err := s.enforceRate(ctx, ClientIP(ctx), action); err != nil {
		return err
	}
	return validation.NewError("body", validation.CodeMalformedBody, "request body is not valid JSON")
}

func (s *Service) enforceRate(ctx context.Context, ip string, action audit.Action) error {
	err := ratelimit.Enforce(ctx, s.limiter, "reservations:"+ip, s.rule)
	if err != nil {
		s.log(ctx, string(action)).Warn("reservation rate limit reached", "ipAddress", ip, "action", string(action))
	}
	return err
}

// resolveOwner returns the acting user and the user who will own a new
// reservation.
func (s *Service) resolveOwner(ctx context.Context, explicit string) (Actor, string, error) {
	actor, ok := ActorFrom(ctx)
	if explicit == "" {
		if !ok {
			return Actor{}, "", ErrUnauthenticated
		}
		return actor, actor.ID, nil
	}

	if ok && actor.ID != explicit && !actor.IsAdmin() {
		return Actor{}, "", ErrForbidden
	}
	if s.users != nil {
		if _, err := s.users.GetByID(ctx, explicit); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return Actor{}, "", validation.NewError("userId", validation.CodeUnknownUser, "unknown user")
			}
			return Actor{}, "", err
		}
	}
	if !ok {
		actor = Actor{ID: explicit, Role: model.RoleUser}
	}
	return actor, explicit, nil
}

// translate maps store sentinels onto the booking taxonomy.  Anything
// unrecognized is returned as is.
func (s *Service) translate(ctx context.Context, operation string, err error) error {
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrRoomNotFound):
		return validation.NewError("roomId", validation.CodeUnknownRoom, "unknown room")
	case errors.Is(err, ErrSlotConflict), errors.Is(err, ErrForbidden):
		return err
	}
	s.log(ctx, operation).Error("reservation transaction failed",
		"err", err, "transient", repository.IsTransient(err))
	return err
}

func (s *Service) emit(ctx context.Context, action audit.Action, reservationID, actorID, ip string) {
	s.audit.Emit(ctx, audit.Event{
		Action:        action,
		ReservationID: reservationID,
		ActorID:       actorID,
		IPAddress:     ip,
		OccurredAt:    s.clock.Now().UTC(),
	})
}

func overlapQuery(r validation.Reservation, excludeID string) repository.OverlapQuery {
	return repository.OverlapQuery{
		RoomID:    r.RoomID,
		Day:       r.Day,
		Start:     r.Start,
		End:       r.End,
		ExcludeID: excludeID,
	}
}

func toModel(r validation.Reservation) model.Reservation {
	return model.Reservation{
		RoomID:           r.RoomID,
		Date:             r.Day.UTC(),
		StartTime:        r.Start.UTC(),
		EndTime:          r.End.UTC(),
		Title:            r.Title,
		Objective:        r.Objective,
		ParticipantGroup: r.ParticipantGroup,
		Note:             r.Note,
	}
}
