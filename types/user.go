package types

import "time"

// User represents an account in the system.
// It contains identity, contact, and session metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is unique across all
	// users and acts as the natural key for login.
	Email string `json:"email" db:"email"`

	// Address is the user's postal address.
	Address string `json:"address" db:"address"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// MobileNumber is the user's mobile phone number.
	MobileNumber string `json:"mobile_number" db:"mobile_number"`

	// SessionTokens holds the tokens currently authorized for this
	// user. A token stays valid until logout removes it or its embedded
	// expiry passes. Never exposed in API responses.
	SessionTokens []string `json:"-" db:"session_tokens"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the projection of a User that is safe to return from
// the API: no password hash, no session tokens.
type UserSummary struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	MobileNumber string    `json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary projects the user onto its API-safe subset of fields.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Address:      u.Address,
		MobileNumber: u.MobileNumber,
		CreatedAt:    u.CreatedAt,
	}
}
