package core

import (
	"context"
	"sort"
	"sync"
)

// DefaultEventBuffer is the channel size used by Broker.Watch when none is given.
const DefaultEventBuffer = 100

// Broker fans events out to subscribers. The zero value is ready to use.
//
// Callbacks run synchronously on the goroutine that published the event,
// after the publishing store released its lock, in subscription order.
type Broker struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]func(Event)
	dropped int
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes the registration. Calling it more than once is harmless.
func (b *Broker) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to all current subscribers.
func (b *Broker) Publish(e Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Watch returns a buffered channel receiving every subsequent event until ctx
// is done. A slow reader never blocks publishers: events that do not fit in
// the buffer are dropped and counted.
func (b *Broker) Watch(ctx context.Context, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	ch := make(chan Event, buffer)
	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			b.mu.Lock()
			b.dropped++
			b.mu.Unlock()
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of active registrations.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many events Watch channels could not accept.
func (b *Broker) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
