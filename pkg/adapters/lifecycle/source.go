// Package lifecycle exposes store events as a lifecycle.Source so a
// supervising process can consume session and collection transitions.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/inkwell/pkg/core"
)

// eventSource relays core.Event values, which satisfy lifecycle.Event
// through their String method.
type eventSource struct {
	in  <-chan core.Event
	out chan lifecycle.Event
}

// NewSource wraps a store event channel, as returned by Watch, in a
// lifecycle.Source. The source closes once in closes or the start
// context is done.
func NewSource(in <-chan core.Event) lifecycle.Source {
	return &eventSource{in: in, out: make(chan lifecycle.Event)}
}

func (s *eventSource) Events() <-chan lifecycle.Event { return s.out }

// Start relays in the background and returns immediately.
func (s *eventSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.relay)
	return nil
}

func (s *eventSource) relay(ctx context.Context) error {
	defer close(s.out)
	for {
		var e core.Event
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-s.in:
			if !ok {
				return nil
			}
			e = next
		}

		select {
		case s.out <- e:
		case <-ctx.Done():
			return nil
		}
	}
}
