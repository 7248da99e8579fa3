// Package queue defines the domain events exchanged over RabbitMQ, the
// publisher used by the services and the audit consumer that records them.
package queue

// Queue names.  Both queues are durable and use the default exchange.
const (
	BookingEventsQueue = "booking.events"
	PaymentEventsQueue = "payment.events"
)

// Booking event actions.
const (
	BookingCreated = "created"
	BookingMoved   = "moved"
)

// BookingEvent is published after a booking is created or moved to
// another room.
type BookingEvent struct {
	Action     string `json:"action"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	HotelID    uint64 `json:"hotel_id"`
	OccurredAt string `json:"occurred_at"`
}

// PaymentProcessedEvent is published after a payment has been stored and
// its ticket marked PAID.  It never carries card data beyond the last
// four digits.
type PaymentProcessedEvent struct {
	PaymentID      uint64 `json:"payment_id"`
	TicketID       uint64 `json:"ticket_id"`
	UserID         uint64 `json:"user_id"`
	Value          uint32 `json:"value"`
	CardIssuer     string `json:"card_issuer"`
	CardLastDigits string `json:"card_last_digits"`
	ProcessedAt    string `json:"processed_at"`
}
