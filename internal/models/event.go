package models

import (
	"errors"
	"strings"
	"time"
)

// Event represents a ticketed occurrence owned by a producer. The shape
// mirrors the backend API's PascalCase JSON.
type Event struct {
	ID               string    `json:"Id"`
	Name             string    `json:"Name"`
	Description      string    `json:"Description"`
	ShortDescription string    `json:"ShortDescription"`
	Capacity         int       `json:"Capacity"`
	StartDateTimeUtc time.Time `json:"StartDateTimeUtc"`
	EndDateTimeUtc   time.Time `json:"EndDateTimeUtc"`
	Location         string    `json:"Location"`
	Address          string    `json:"Address"`
	ImageURL         string    `json:"ImageUrl"`
	ProducerID       string    `json:"ProducerId"`
	Tags             []string  `json:"Tags,omitempty"`
}

var (
	// ErrMissingEventID is returned when a backend event has no identifier.
	ErrMissingEventID = errors.New("event is missing an id")
	// ErrMissingEventName is returned when a backend event has no name.
	ErrMissingEventName = errors.New("event is missing a name")
	// ErrNegativeCapacity is returned when a backend event reports a negative capacity.
	ErrNegativeCapacity = errors.New("event capacity must not be negative")
)

// Normalize cleans up a backend response before it enters application state.
// The backend is inconsistent about Location vs Address across endpoints, so
// whichever is present fills the other; timestamps are pinned to UTC.
func (e *Event) Normalize() {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	if e.Location == "" {
		e.Location = e.Address
	}
	if e.Address == "" {
		e.Address = e.Location
	}
	if !e.StartDateTimeUtc.IsZero() {
		e.StartDateTimeUtc = e.StartDateTimeUtc.UTC()
	}
	if !e.EndDateTimeUtc.IsZero() {
		e.EndDateTimeUtc = e.EndDateTimeUtc.UTC()
	}
}

// Validate checks the fields this service relies on. Date ordering is the
// backend's invariant and is not re-checked here.
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrMissingEventID
	}
	if e.Name == "" {
		return ErrMissingEventName
	}
	if e.Capacity < 0 {
		return ErrNegativeCapacity
	}
	return nil
}

// HasEnded reports whether the event's end time has passed.
func (e *Event) HasEnded(now time.Time) bool {
	return !e.EndDateTimeUtc.After(now)
}

// IsUpcoming reports whether the event starts after now. Used to split a
// user's attended events into upcoming and past on the profile page.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartDateTimeUtc.After(now)
}

// MatchesSearch reports whether the event matches a free-text search term.
// An empty term matches everything; otherwise the match is a case-insensitive
// substring test against name, location and short description.
func (e *Event) MatchesSearch(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Name), term) ||
		strings.Contains(strings.ToLower(e.Location), term) ||
		strings.Contains(strings.ToLower(e.ShortDescription), term)
}
