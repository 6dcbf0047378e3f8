// Package core holds the domain types, error taxonomy and ports shared by
// the session and collection stores.
package core

import (
	"fmt"
	"time"
)

// Credential is the opaque bearer token issued by the remote service.
type Credential string

// Profile is the read-only account information returned by GET /me.
type Profile struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
}

// EventType represents the kind of state transition a store went through.
type EventType string

const (
	// Session transitions.
	EventLogin   EventType = "LOGIN"
	EventLogout  EventType = "LOGOUT"
	EventExpired EventType = "EXPIRED"
	EventProfile EventType = "PROFILE"

	// Collection transitions.
	EventLoading EventType = "LOADING"
	EventLoaded  EventType = "LOADED"
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
	EventReset   EventType = "RESET"
)

// Event describes a state transition. ID is the affected note, if any.
type Event struct {
	Type      EventType
	ID        NoteID
	Timestamp int64 // Unix timestamp
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, id NoteID) Event {
	return Event{Type: t, ID: id, Timestamp: time.Now().Unix()}
}

func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
