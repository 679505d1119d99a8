package model

import "time"

// Room represents a bookable room from the `rooms` table.  Rooms are
// managed outside the reservation flow and are only referenced by id
// while a booking is being created or changed.
//
// Fields:
//  ID        – primary key identifier (UUID).
//  Name      – unique display name, often prefixed with an ordering number.
//  Capacity  – number of seats.
//  Building  – building the room belongs to.
//  Location  – floor or wing inside the building (nullable).
//  Category  – free-form category such as "Amphithéâtre" (nullable).
//  CreatedAt – creation timestamp.
type Room struct {
	ID        string    `json:"id"`                 // rooms.id
	Name      string    `json:"name"`               // rooms.name
	Capacity  int       `json:"capacity"`           // rooms.capacity
	Building  string    `json:"building"`           // rooms.building
	Location  *string   `json:"location,omitempty"` // rooms.location (nullable)
	Category  *string   `json:"category,omitempty"` // rooms.category (nullable)
	CreatedAt time.Time `json:"-"`                  // rooms.created_at
}
