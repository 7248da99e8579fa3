package model

import "time"

// Payment records a settled payment for a ticket.  Value is copied from
// the ticket type price when the payment is created.  Only the issuer
// and the last four digits of the card are persisted; the full number
// and the CVV never reach the database.
//
// Fields:
//  ID             – primary key identifier.
//  TicketID       – ticket this payment settles.
//  Value          – amount charged, in the smallest currency unit.
//  CardIssuer     – card brand reported by the client (VISA, MASTERCARD...).
//  CardLastDigits – last four digits of the card number.
type Payment struct {
	ID             uint64    `json:"id"`             // payments.id
	TicketID       uint64    `json:"ticketId"`       // payments.ticket_id
	Value          uint32    `json:"value"`          // payments.value
	CardIssuer     string    `json:"cardIssuer"`     // payments.card_issuer
	CardLastDigits string    `json:"cardLastDigits"` // payments.card_last_digits
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
