package model

import "time"

// Reservation records a user's booking of one room for one time range.
// All instants are absolute (UTC in storage); Date is local midnight of
// the booked day in the operating time zone and serves as a coarse key
// for day and range queries.
//
// Fields:
//  ID               – primary key identifier (UUID).
//  RoomID           – booked room.
//  UserID           – owner; the actor who created the reservation.
//  Date             – zone-local midnight of the booked day.
//  StartTime        – inclusive start instant.
//  EndTime          – exclusive end instant, strictly after StartTime.
//  Title            – short label shown on the grid.
//  Objective        – purpose such as "Cours" or "Examen".
//  ParticipantGroup – class or team attending.
//  Note             – optional remark.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               string    `json:"id"`               // reservations.id
	RoomID           string    `json:"roomId"`           // reservations.room_id
	UserID           string    `json:"userId"`           // reservations.user_id
	Date             time.Time `json:"date"`             // reservations.date
	StartTime        time.Time `json:"startTime"`        // reservations.start_time
	EndTime          time.Time `json:"endTime"`          // reservations.end_time
	Title            string    `json:"title"`            // reservations.title
	Objective        string    `json:"objective"`        // reservations.objective
	ParticipantGroup string    `json:"participantGroup"` // reservations.participant_group
	Note             *string   `json:"note,omitempty"`   // reservations.note (nullable)
	CreatedAt        time.Time `json:"createdAt"`        // reservations.created_at
	UpdatedAt        time.Time `json:"updatedAt"`        // reservations.updated_at
}

// Bounds returns the booked [start, end) interval.
func (r Reservation) Bounds() (time.Time, time.Time) { return r.StartTime, r.EndTime }

// RoomSummary is the subset of room columns joined onto a reservation.
type RoomSummary struct {
	Name     string  `json:"name"`
	Building string  `json:"building"`
	Capacity int     `json:"capacity"`
	Location *string `json:"location,omitempty"`
	Category *string `json:"category,omitempty"`
}

// OwnerSummary is the subset of user columns joined onto a reservation.
type OwnerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReservationDetail is a reservation with its room and owner joined, as
// returned by create/update and by listings.
type ReservationDetail struct {
	Reservation
	Room  RoomSummary  `json:"room"`
	Owner OwnerSummary `json:"owner"`
}
