// Package collection holds the client-side copy of the user's notes and
// keeps it consistent with what the server has acknowledged.
package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/inkwell/pkg/core"
)

// State is the collection state machine.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

const pathNotes = "/notes"

// Session is what the collection needs from the session store.
type Session interface {
	core.CredentialSource
	Expire(used core.Credential)
	Subscribe(fn func(core.Event)) (unsubscribe func())
}

// Config holds the dependencies of a Store.
type Config struct {
	Transport core.Transport
	Session   Session
	Logger    *slog.Logger
}

// Store is the Note Collection Store.
type Store struct {
	transport   core.Transport
	session     Session
	logger      *slog.Logger
	events      core.Broker
	unsubscribe func()

	mu         sync.RWMutex
	state      State
	loaded     bool
	notes      []core.Note
	seq        uint64
	generation uint64
}

// New creates an Uninitialized store that resets itself whenever the
// session logs in, logs out or expires.
func New(cfg Config) (*Store, error) {
	if cfg.Transport == nil {
		return nil, errors.New("collection: transport is required")
	}
	if cfg.Session == nil {
		return nil, errors.New("collection: session is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		transport: cfg.Transport,
		session:   cfg.Session,
		logger:    logger,
	}
	s.unsubscribe = cfg.Session.Subscribe(s.onSession)
	return s, nil
}

// Close detaches the store from the session.
func (s *Store) Close() {
	s.unsubscribe()
}

func (s *Store) onSession(e core.Event) {
	switch e.Type {
	case core.EventLogin, core.EventLogout, core.EventExpired:
		s.Reset()
	}
}

// Reset discards the collection and any load still in flight.
func (s *Store) Reset() {
	s.mu.Lock()
	s.generation++
	changed := s.state != Uninitialized
	s.state = Uninitialized
	s.loaded = false
	s.notes = nil
	s.mu.Unlock()

	if changed {
		s.logger.Debug("collection reset")
		s.events.Publish(core.NewEvent(core.EventReset, ""))
	}
}

// Load replaces the collection with the server's list.
//
// Without a credential it fails with core.ErrUnauthenticated and makes no
// call. When a newer Load (or a reset) happened while this one was in
// flight, its result is dropped and core.ErrSuperseded is returned.
func (s *Store) Load(ctx context.Context) error {
	credential, ok := s.session.CurrentCredential()
	if !ok {
		return core.ErrUnauthenticated
	}

	s.mu.Lock()
	s.seq++
	seq, generation := s.seq, s.generation
	s.state = Loading
	s.mu.Unlock()
	s.events.Publish(core.NewEvent(core.EventLoading, ""))

	var notes []core.Note
	resp, err := s.transport.Send(ctx, http.MethodGet, pathNotes, nil)
	if err == nil {
		if derr := resp.Decode(&notes); derr != nil {
			err = core.Unavailable(fmt.Errorf("load notes: %w", derr))
		}
	}

	s.mu.Lock()
	if seq != s.seq || generation != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale load", "seq", seq)
		return core.ErrSuperseded
	}
	if err != nil {
		s.state = Uninitialized
		if s.loaded {
			s.state = Ready
		}
		s.mu.Unlock()
		if !core.IsAuthRejection(err) {
			err = core.Unavailable(err)
		}
		return s.failure(credential, "load notes", err)
	}
	if notes == nil {
		notes = []core.Note{}
	}
	s.notes = notes
	s.loaded = true
	s.state = Ready
	s.mu.Unlock()

	s.logger.Debug("notes loaded", "count", len(notes))
	s.events.Publish(core.NewEvent(core.EventLoaded, ""))
	return nil
}

// Create asks the server to store a new note and appends the acknowledged
// note. Nothing is inserted before the server confirms.
func (s *Store) Create(ctx context.Context, title, content string) (core.Note, error) {
	input, err := validateInput(title, content)
	if err != nil {
		return core.Note{}, err
	}
	credential, ok := s.session.CurrentCredential()
	if !ok {
		return core.Note{}, core.ErrUnauthenticated
	}

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	resp, err := s.transport.Send(ctx, http.MethodPost, pathNotes, input)
	if err != nil {
		return core.Note{}, s.failure(credential, "create note", err)
	}
	var note core.Note
	if err := resp.Decode(&note); err != nil {
		return core.Note{}, core.Unavailable(fmt.Errorf("create note: %w", err))
	}
	if note.ID == "" {
		return core.Note{}, core.Unavailable(errors.New("create note: server returned a note without id"))
	}

	s.mu.Lock()
	applied := generation == s.generation && s.loaded
	if applied {
		// A load that finished while the create was in flight may
		// already hold the note.
		if i := s.indexOf(note.ID); i >= 0 {
			s.notes[i] = note
		} else {
			s.notes = append(s.notes, note)
		}
	}
	s.mu.Unlock()

	s.logger.Info("note created", "id", note.ID)
	if applied {
		s.events.Publish(core.NewEvent(core.EventCreate, note.ID))
	}
	return note, nil
}

// Update replaces the title and content of a note in the collection.
func (s *Store) Update(ctx context.Context, id core.NoteID, title, content string) (core.Note, error) {
	input, err := validateInput(title, content)
	if err != nil {
		return core.Note{}, err
	}
	if _, ok := s.Lookup(id); !ok {
		return core.Note{}, core.ErrNotFound
	}
	credential, ok := s.session.CurrentCredential()
	if !ok {
		return core.Note{}, core.ErrUnauthenticated
	}

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	resp, err := s.transport.Send(ctx, http.MethodPut, notePath(id), input)
	if err != nil {
		return core.Note{}, s.failure(credential, "update note", err)
	}
	var note core.Note
	if err := resp.Decode(&note); err != nil {
		return core.Note{}, core.Unavailable(fmt.Errorf("update note: %w", err))
	}
	if note.ID == "" {
		note.ID = id
	}

	applied := false
	if generation == s.currentGeneration() {
		applied = s.replace(id, note)
	}

	s.logger.Info("note updated", "id", id)
	if applied {
		s.events.Publish(core.NewEvent(core.EventModify, id))
	}
	return note, nil
}

// Delete removes a note on the server, then from the collection. An id the
// collection does not hold fails with core.ErrNotFound and makes no call.
func (s *Store) Delete(ctx context.Context, id core.NoteID) error {
	if _, ok := s.Lookup(id); !ok {
		return core.ErrNotFound
	}
	credential, ok := s.session.CurrentCredential()
	if !ok {
		return core.ErrUnauthenticated
	}

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	if _, err := s.transport.Send(ctx, http.MethodDelete, notePath(id), nil); err != nil {
		return s.failure(credential, "delete note", err)
	}

	s.mu.Lock()
	removed := false
	if generation == s.generation {
		before := len(s.notes)
		s.notes = slices.DeleteFunc(s.notes, func(n core.Note) bool { return n.ID == id })
		removed = len(s.notes) != before
	}
	s.mu.Unlock()

	s.logger.Info("note deleted", "id", id)
	if removed {
		s.events.Publish(core.NewEvent(core.EventDelete, id))
	}
	return nil
}

// Get fetches a single note. When the collection holds it, the entry is
// refreshed in place.
func (s *Store) Get(ctx context.Context, id core.NoteID) (core.Note, error) {
	credential, ok := s.session.CurrentCredential()
	if !ok {
		return core.Note{}, core.ErrUnauthenticated
	}

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	resp, err := s.transport.Send(ctx, http.MethodGet, notePath(id), nil)
	if err != nil {
		var rejected *core.RejectedError
		if errors.As(err, &rejected) && rejected.StatusCode == http.StatusNotFound {
			return core.Note{}, fmt.Errorf("%w: %w", core.ErrNotFound, err)
		}
		return core.Note{}, s.failure(credential, "get note", err)
	}
	var note core.Note
	if err := resp.Decode(&note); err != nil {
		return core.Note{}, core.Unavailable(fmt.Errorf("get note: %w", err))
	}

	if generation == s.currentGeneration() && s.replace(id, note) {
		s.events.Publish(core.NewEvent(core.EventModify, id))
	}
	return note, nil
}

// Notes returns a copy of the collection in insertion order.
func (s *Store) Notes() []core.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Lookup returns the note with id, if the collection holds it.
func (s *Store) Lookup(id core.NoteID) (core.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// Status returns the current state.
func (s *Store) Status() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every state transition.
func (s *Store) Subscribe(fn func(core.Event)) (unsubscribe func()) {
	return s.events.Subscribe(fn)
}

// Watch streams state transitions until ctx is done.
func (s *Store) Watch(ctx context.Context, buffer int) <-chan core.Event {
	return s.events.Watch(ctx, buffer)
}

// failure maps a transport error for op. An authentication rejection ends
// the session that made the call.
func (s *Store) failure(used core.Credential, op string, err error) error {
	if core.IsAuthRejection(err) {
		s.session.Expire(used)
		return fmt.Errorf("%s: %w: %w", op, core.ErrUnauthenticated, err)
	}
	s.logger.Debug("request failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) replace(id core.NoteID, note core.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.notes[i] = note
	return true
}

// indexOf returns the position of id, or -1. Callers hold s.mu.
func (s *Store) indexOf(id core.NoteID) int {
	return slices.IndexFunc(s.notes, func(n core.Note) bool { return n.ID == id })
}

// validateInput rejects blank fields. The text itself is sent as typed.
func validateInput(title, content string) (core.NoteInput, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return core.NoteInput{}, fmt.Errorf("%w: title and content are required", core.ErrInvalidInput)
	}
	return core.NoteInput{Title: title, Content: content}, nil
}

func notePath(id core.NoteID) string {
	return pathNotes + "/" + url.PathEscape(id.String())
}
