package model

import "time"

// Enrollment holds the personal data a user submits before buying a
// ticket.  There is at most one enrollment per user and it carries a
// single postal address.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the enrollment (unique).
//  Name      – full name of the attendee.
//  CPF       – national document number.
//  Birthday  – date of birth.
//  Phone     – contact phone number.
//  Address   – postal address, loaded together with the enrollment.
type Enrollment struct {
	ID        uint64    `json:"id"`       // enrollments.id
	UserID    uint64    `json:"userId"`   // enrollments.user_id
	Name      string    `json:"name"`     // enrollments.name
	CPF       string    `json:"cpf"`      // enrollments.cpf
	Birthday  time.Time `json:"birthday"` // enrollments.birthday
	Phone     string    `json:"phone"`    // enrollments.phone
	Address   *Address  `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Address is the postal address attached to an enrollment.
type Address struct {
	ID            uint64    `json:"id"`            // addresses.id
	EnrollmentID  uint64    `json:"enrollmentId"`  // addresses.enrollment_id (unique)
	CEP           string    `json:"cep"`           // addresses.cep
	Street        string    `json:"street"`        // addresses.street
	City          string    `json:"city"`          // addresses.city
	State         string    `json:"state"`         // addresses.state
	Number        string    `json:"number"`        // addresses.number
	Neighborhood  string    `json:"neighborhood"`  // addresses.neighborhood
	AddressDetail *string   `json:"addressDetail"` // addresses.address_detail (nullable)
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
