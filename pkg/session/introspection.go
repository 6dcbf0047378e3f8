package session

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
// The credential itself is never part of it.
type StoreState struct {
	Status      string     `json:"status"`
	HasProfile  bool       `json:"has_profile"`
	Email       string     `json:"email,omitempty"`
	Restored    bool       `json:"restored"`
	Following   bool       `json:"following"`
	Subject     string     `json:"subject,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Subscribers int        `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := StoreState{
		Status:      s.state.String(),
		HasProfile:  s.profile != nil,
		Restored:    s.restored,
		Following:   s.following,
		Subscribers: s.events.Subscribers(),
	}
	if s.profile != nil {
		state.Email = s.profile.Email
	}
	if claims, ok := Inspect(s.credential); ok {
		state.Subject = claims.Subject
		state.ExpiresAt = claims.ExpiresAt
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
