// Package audit carries the structured record of every successful
// reservation mutation to its sinks: the service log and, when configured,
// a RabbitMQ queue drained by the audit worker.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/room-reservation/internal/logging"
)

// Action names the mutation an event records.
type Action string

const (
	ActionCreate Action = "reservations.create"
	ActionUpdate Action = "reservations.update"
	ActionDelete Action = "reservations.delete"
)

// Event is published once a mutation has committed.
type Event struct {
	Action        Action    `json:"action"`
	ReservationID string    `json:"reservationId"`
	ActorID       string    `json:"actorId"`
	IPAddress     string    `json:"ipAddress"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Emitter receives audit events.  Emit must not fail the caller: the
// mutation it describes has already been committed.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, ev Event)

func (f EmitterFunc) Emit(ctx context.Context, ev Event) { f(ctx, ev) }

// Multi fans an event out to every emitter in order.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, ev Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(ctx, ev)
		}
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

// Log writes events to the request logger.  Personal data is redacted by
// the logger's own handler.
type Log struct{}

func (Log) Emit(ctx context.Context, ev Event) {
	logging.FromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "reservation audit",
		slog.String("action", string(ev.Action)),
		slog.String("reservationId", ev.ReservationID),
		slog.String("actorId", ev.ActorID),
		slog.String("ipAddress", ev.IPAddress),
	)
}
