// Package models contains the client-side view of server resources, shaped
// after the wire DTOs.
package models

import "time"

// Favorite mirrors one entry of the user's favorites list.
type Favorite struct {
	ModuleID    string    `json:"module_id"`
	AddedAt     time.Time `json:"added_at"`
	ModuleName  string    `json:"module_name"`
	StudyCredit int       `json:"studycredit"`
	Location    string    `json:"location"`
}

// User is the profile as the server returns it. Login and register responses
// carry only the name and email fields; Favorites and the timestamps are
// filled by a profile fetch.
type User struct {
	Firstname string     `json:"firstname"`
	Lastname  string     `json:"lastname"`
	Email     string     `json:"email"`
	Favorites []Favorite `json:"favorites"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FullName returns "Firstname Lastname" for display.
func (u *User) FullName() string {
	return u.Firstname + " " + u.Lastname
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
