package model

import "time"

// Hotel is a lodging option offered to ticket holders whose ticket type
// includes hotel access.  Rooms is only populated by detail lookups;
// list lookups leave it nil so it is omitted from JSON.
type Hotel struct {
	ID        uint64    `json:"id"`    // hotels.id
	Name      string    `json:"name"`  // hotels.name
	Image     string    `json:"image"` // hotels.image
	Rooms     []Room    `json:"Rooms,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Room belongs to a hotel and accepts up to Capacity bookings.  Bookings
// holds the number of bookings referencing the room at the moment the
// row was read; it is not a column.
//
// Fields:
//  ID        – primary key identifier.
//  HotelID   – hotel that contains the room.
//  Name      – room label shown to users.
//  Capacity  – maximum number of bookings.
//  Bookings  – current occupancy, computed on read.
type Room struct {
	ID        uint64    `json:"id"`       // rooms.id
	Name      string    `json:"name"`     // rooms.name
	Capacity  uint32    `json:"capacity"` // rooms.capacity
	HotelID   uint64    `json:"hotelId"`  // rooms.hotel_id
	Bookings  uint32    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
