package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/inkwell/pkg/core"
)

// ErrNotWatchable is returned by Follow when the credential store cannot
// report external changes.
var ErrNotWatchable = errors.New("credential store does not support watching")

// Follow keeps the in-memory session in step with the durable copy while
// ctx is alive: another process logging out ends this session, another
// login replaces the credential. It returns once the watch is set up.
func (s *Store) Follow(ctx context.Context) error {
	w, ok := s.credentials.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("follow session: %w", err)
	}

	s.mu.Lock()
	s.following = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.following = false
			s.mu.Unlock()
		}()
		for range changes {
			s.sync(ctx)
		}
	}()
	return nil
}

// sync applies the stored credential to the in-memory state without
// writing it back.
func (s *Store) sync(ctx context.Context) {
	stored, ok, err := s.credentials.Load(ctx)
	if err != nil {
		s.logger.Warn("could not read stored credential", "error", err)
		return
	}

	s.mu.Lock()
	current := s.credential
	switch {
	case !ok && current != "":
		s.state = LoggedOut
		s.credential = ""
		s.profile = nil
		s.mu.Unlock()
		s.logger.Info("session ended elsewhere")
		s.events.Publish(core.NewEvent(core.EventLogout, ""))

	case ok && stored != current:
		s.state = LoggedIn
		s.credential = stored
		s.profile = nil
		s.mu.Unlock()
		s.logger.Info("session replaced elsewhere")
		s.events.Publish(core.NewEvent(core.EventLogin, ""))

	default:
		s.mu.Unlock()
	}
}
