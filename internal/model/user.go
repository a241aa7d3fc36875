// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered student account.
//
// Identity is a sequential numeric id assigned by the store, plus a unique
// email. The email is unique across the whole store and compared exactly as
// stored (case-sensitive).
//
// WHY *string / *time.Time FOR THE CODE FIELDS?
// A pending one-time code either exists or it doesn't — there is a meaningful
// difference between "no code pending" and "code is the empty string". Using
// pointers gives us a real null state that maps directly onto the NULLable
// columns in the store. Consuming a code nulls both the code and its expiry
// in a single Update, which is what makes codes single-use.
//
// PasswordHash is the bcrypt output — the plaintext password is never stored
// anywhere, and this field is never serialized (note the `json:"-"` tag).
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Institution  string  `json:"institution"`
	AvatarURL    *string `json:"avatarUrl"`

	// Two-factor state. The flag is toggled out of band; the code/expiry pair
	// is set on login and cleared on successful verification.
	TwoFactorEnabled     bool       `json:"-"`
	TwoFactorCode        *string    `json:"-"`
	TwoFactorCodeExpires *time.Time `json:"-"`

	// Password-recovery state, same single-use discipline as the 2FA pair.
	ResetCode        *string    `json:"-"`
	ResetCodeExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the subset of User that is safe to return to clients.
// Every endpoint that returns a user returns this shape — the full User
// struct (with hash and pending codes) never crosses the HTTP boundary.
type PublicUser struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Institution string  `json:"institution"`
	AvatarURL   *string `json:"avatarUrl"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Institution: u.Institution,
		AvatarURL:   u.AvatarURL,
	}
}
