package models

import "strings"

// User is the profile the backend stores for a signed-in account. A copy is
// kept in the cookie session under the "user" key after sign-in.
type User struct {
	ID             string   `json:"Id"`
	Email          string   `json:"Email"`
	FirstName      string   `json:"FirstName"`
	LastName       string   `json:"LastName"`
	PhoneNumber    string   `json:"PhoneNumber"`
	Username       string   `json:"Username,omitempty"`
	EventsAttended []string `json:"EventsAttended,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// BuyerDetails are the contact fields collected during checkout. When a
// session user exists they are prefilled from the profile and the manual form
// is skipped; otherwise they come from form input and are validated here.
type BuyerDetails struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=7"`
}

// FromUser prefills buyer details from a session user.
func (b *BuyerDetails) FromUser(u *User) {
	b.Email = u.Email
	b.FirstName = u.FirstName
	b.LastName = u.LastName
	b.PhoneNumber = u.PhoneNumber
}

// LoginResult is the backend's answer to a successful credential check.
type LoginResult struct {
	ID    string `json:"Id"`
	Token string `json:"Token"`
}

// SignupRequest is the payload for account creation, verified entirely by the
// backend. The signup endpoint takes camelCase keys, unlike most of the API.
type SignupRequest struct {
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// UserUpdateRequest carries profile edits forwarded to the backend.
type UserUpdateRequest struct {
	Email       string `json:"Email,omitempty" validate:"omitempty,email"`
	FirstName   string `json:"FirstName,omitempty"`
	LastName    string `json:"LastName,omitempty"`
	PhoneNumber string `json:"PhoneNumber,omitempty"`
	Username    string `json:"Username,omitempty"`
}

// Producer is the organizing entity associated with an event.
type Producer struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}
