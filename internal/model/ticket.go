package model

import "time"

// TicketStatus is the payment state of a ticket.
type TicketStatus string

const (
	// TicketReserved is the status of every freshly created ticket.
	TicketReserved TicketStatus = "RESERVED"
	// TicketPaid is reached only through a successful payment.
	TicketPaid TicketStatus = "PAID"
)

// TicketType is an entry of the static ticket catalog.  IncludesHotel
// decides whether holders of this type may browse hotels and book rooms.
// Price is expressed in the smallest currency unit.
type TicketType struct {
	ID            uint64    `json:"id"`            // ticket_types.id
	Name          string    `json:"name"`          // ticket_types.name
	Price         uint32    `json:"price"`         // ticket_types.price
	IsRemote      bool      `json:"isRemote"`      // ticket_types.is_remote
	IncludesHotel bool      `json:"includesHotel"` // ticket_types.includes_hotel
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Ticket belongs to exactly one enrollment and references a ticket type.
// It is created RESERVED and becomes PAID as a side effect of payment
// creation.  TicketType is populated by repository reads that join the
// catalog.
//
// Fields:
//  ID           – primary key identifier.
//  TicketTypeID – catalog entry this ticket was bought from.
//  EnrollmentID – enrollment that owns the ticket.
//  Status       – RESERVED or PAID.
type Ticket struct {
	ID           uint64       `json:"id"`           // tickets.id
	TicketTypeID uint64       `json:"ticketTypeId"` // tickets.ticket_type_id
	EnrollmentID uint64       `json:"enrollmentId"` // tickets.enrollment_id
	Status       TicketStatus `json:"status"`       // tickets.status
	TicketType   *TicketType  `json:"TicketType,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// IsPaid reports whether the ticket has been paid for.
func (t *Ticket) IsPaid() bool { return t.Status == TicketPaid }
