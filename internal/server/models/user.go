// Package models contains the server-side domain entities.
package models

import "time"

// User is the account aggregate. Email is always stored lower-cased and the
// store enforces its uniqueness. Favorites keep insertion order; the list is
// read and written as a whole on every mutation.
type User struct {
	ID           string
	Firstname    string
	Lastname     string
	Email        string
	PasswordHash string
	Favorites    []Favorite
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "Firstname Lastname" for display.
func (u *User) FullName() string {
	return u.Firstname + " " + u.Lastname
}

// Favorite is a snapshot of a catalog module captured at favorite-time.
// Its descriptive fields are never updated afterwards, even when the source
// module changes.
type Favorite struct {
	ModuleID    string    `json:"module_id"`
	AddedAt     time.Time `json:"added_at"`
	ModuleName  string    `json:"module_name"`
	StudyCredit int       `json:"studycredit"`
	Location    string    `json:"location"`
}
