package types

import "time"

// User represents an account in the system.
// It contains identity, contact, and reputation metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id"`

	// Name is the user's display or full name.
	Name string `json:"name"`

	// Email is the user's email address. It is the unique login key.
	Email string `json:"email"`

	// Password is the user's password, stored and compared as-is.
	// The login contract is an exact plaintext match, so the field
	// must survive serialization; handlers blank it before writing a
	// user to an API response.
	Password string `json:"password"`

	// Phone is the user's contact phone number.
	Phone string `json:"phone"`

	// College is the campus the user belongs to.
	College string `json:"college"`

	// Verified reports whether the account has been verified.
	// Accounts are auto-verified on creation.
	Verified bool `json:"verified"`

	// Reputation is the user's community reputation counter.
	Reputation int `json:"reputation"`

	// ItemsFound counts items the user reported as found.
	ItemsFound int `json:"itemsFound"`

	// ItemsReturned counts items the user returned to their owners.
	ItemsReturned int `json:"itemsReturned"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// UserUpdate carries a partial-field update for a user. Nil fields are
// left untouched; non-nil fields overwrite the stored value.
type UserUpdate struct {
	Name          *string `json:"name,omitempty"`
	Password      *string `json:"password,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	College       *string `json:"college,omitempty"`
	Reputation    *int    `json:"reputation,omitempty"`
	ItemsFound    *int    `json:"itemsFound,omitempty"`
	ItemsReturned *int    `json:"itemsReturned,omitempty"`
}
