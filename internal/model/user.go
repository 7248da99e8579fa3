package model

import "time"

// User represents an account as stored in the `users` table.  Users
// authenticate with email and password; everything else in the system
// (enrollment, tickets, bookings) hangs off the user's ID.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`    // users.id
	Email        string    `json:"email"` // users.email
	PasswordHash string    `json:"-"`     // users.password_hash
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session models an entry in the `sessions` table.  A session is created
// on sign-in and must exist for an access token to be accepted.  The raw
// token is never stored; only its SHA-256 hex digest.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	CreatedAt time.Time // sessions.created_at
}
