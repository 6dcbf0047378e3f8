package collection

import "github.com/aretw0/introspection"

// StoreState exposes internal state for observability.
type StoreState struct {
	Status      string `json:"status"`
	Notes       int    `json:"notes"`
	Loads       uint64 `json:"loads"`
	Resets      uint64 `json:"resets"`
	Subscribers int    `json:"subscribers"`
	Dropped     int    `json:"dropped_events"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Status:      s.state.String(),
		Notes:       len(s.notes),
		Loads:       s.seq,
		Resets:      s.generation,
		Subscribers: s.events.Subscribers(),
		Dropped:     s.events.Dropped(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
