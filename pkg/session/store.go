// Package session holds the authentication state of the client: whether a
// credential is present, the profile behind it, and its durable copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/aretw0/inkwell/pkg/core"
)

// State is the session state machine.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

const (
	pathLogin  = "/login"
	pathSignup = "/signup"
	pathMe     = "/me"
)

// Config holds the dependencies of a Store.
type Config struct {
	Transport   core.Transport
	Credentials core.CredentialStore
	Logger      *slog.Logger
}

// Store is the Session Store. The zero value is not usable; use New.
type Store struct {
	transport   core.Transport
	credentials core.CredentialStore
	logger      *slog.Logger
	events      core.Broker

	mu         sync.RWMutex
	state      State
	credential core.Credential
	profile    *core.Profile
	restored   bool
	following  bool
}

// New creates a Store in the LoggedOut state. Call Restore to rehydrate a
// persisted credential.
func New(cfg Config) (*Store, error) {
	if cfg.Transport == nil {
		return nil, errors.New("session: transport is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("session: credential store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		transport:   cfg.Transport,
		credentials: cfg.Credentials,
		logger:      logger,
	}, nil
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges an email and password for a credential.
//
// The identifier is checked locally first; a malformed one fails with
// core.ErrInvalidInput without any network call. Server rejections are
// returned as *core.RejectedError, a missing response as core.ErrUnreachable.
func (s *Store) Login(ctx context.Context, identifier, secret string) error {
	if err := ValidateEmail(identifier); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("username", identifier)
	form.Set("password", secret)

	resp, err := s.transport.Send(ctx, http.MethodPost, pathLogin, form)
	if err != nil {
		return loginError(err)
	}

	var payload loginResponse
	if err := resp.Decode(&payload); err != nil {
		return core.Unavailable(fmt.Errorf("login: %w", err))
	}
	if payload.AccessToken == "" {
		return &core.RejectedError{StatusCode: resp.StatusCode, Message: "server returned no access token"}
	}

	s.enter(ctx, core.Credential(payload.AccessToken), core.EventLogin)
	s.logger.Info("logged in", "user", identifier)
	return nil
}

func loginError(err error) error {
	var rejected *core.RejectedError
	if errors.As(err, &rejected) {
		return rejected
	}
	if errors.Is(err, core.ErrUnavailable) {
		return fmt.Errorf("%w: %w", core.ErrUnreachable, err)
	}
	return err
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account. It never logs the user in; callers are
// expected to call Login afterwards.
func (s *Store) Signup(ctx context.Context, email, secret, confirmation string) error {
	if err := ValidatePassword(secret, confirmation); err != nil {
		return err
	}

	if _, err := s.transport.Send(ctx, http.MethodPost, pathSignup, signupRequest{Email: email, Password: secret}); err != nil {
		return loginError(err)
	}
	s.logger.Info("account created", "user", email)
	return nil
}

// Logout discards the credential and profile. It never fails; a storage
// error is logged and the in-memory session is still cleared.
func (s *Store) Logout() {
	if s.leave(context.Background(), core.EventLogout) {
		s.logger.Info("logged out")
	}
}

// Expire drops the session after a collaborator saw the server reject
// used. It is a no-op when the session has since moved to another
// credential, so a late response cannot end a newer login.
func (s *Store) Expire(used core.Credential) {
	s.mu.RLock()
	current := s.credential
	s.mu.RUnlock()

	if current == "" || current != used {
		return
	}
	if s.leave(context.Background(), core.EventExpired) {
		s.logger.Warn("session expired; credential rejected by server")
	}
}

// CurrentCredential returns the active credential, ok=false when logged out.
func (s *Store) CurrentCredential() (core.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.state == LoggedIn
}

// Status returns the current state.
func (s *Store) Status() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Profile returns the profile of the logged-in user, fetching it once per
// credential.
func (s *Store) Profile(ctx context.Context) (core.Profile, error) {
	s.mu.RLock()
	credential, state, cached := s.credential, s.state, s.profile
	s.mu.RUnlock()

	if state != LoggedIn {
		return core.Profile{}, core.ErrUnauthenticated
	}
	if cached != nil {
		return *cached, nil
	}

	resp, err := s.transport.Send(ctx, http.MethodGet, pathMe, nil)
	if err != nil {
		if core.IsAuthRejection(err) {
			s.Expire(credential)
			return core.Profile{}, fmt.Errorf("%w: %w", core.ErrUnauthenticated, err)
		}
		return core.Profile{}, err
	}

	var profile core.Profile
	if err := resp.Decode(&profile); err != nil {
		return core.Profile{}, core.Unavailable(fmt.Errorf("profile: %w", err))
	}

	s.mu.Lock()
	if s.credential != credential {
		s.mu.Unlock()
		return profile, nil
	}
	s.profile = &profile
	s.mu.Unlock()

	s.events.Publish(core.NewEvent(core.EventProfile, ""))
	return profile, nil
}

// Restore rehydrates a persisted credential. The credential is trusted
// without a round trip until an authenticated call is rejected.
func (s *Store) Restore(ctx context.Context) error {
	credential, ok, err := s.credentials.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.restored = ok
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if claims, ok := Inspect(credential); ok && claims.Expired() {
		s.logger.Debug("restored credential looks expired; keeping it until the server rejects it", "expires_at", claims.ExpiresAt)
	}

	s.mu.Lock()
	s.state = LoggedIn
	s.credential = credential
	s.profile = nil
	s.mu.Unlock()

	s.events.Publish(core.NewEvent(core.EventLogin, ""))
	s.logger.Debug("session restored")
	return nil
}

// Subscribe registers fn for every state transition.
func (s *Store) Subscribe(fn func(core.Event)) (unsubscribe func()) {
	return s.events.Subscribe(fn)
}

// Watch streams state transitions until ctx is done.
func (s *Store) Watch(ctx context.Context, buffer int) <-chan core.Event {
	return s.events.Watch(ctx, buffer)
}

// enter transitions into LoggedIn with credential, replacing prior state,
// and persists it.
func (s *Store) enter(ctx context.Context, credential core.Credential, reason core.EventType) {
	s.mu.Lock()
	s.state = LoggedIn
	s.credential = credential
	s.profile = nil
	s.mu.Unlock()

	if err := s.credentials.Save(ctx, credential); err != nil {
		s.logger.Warn("could not persist credential", "error", err)
	}
	s.events.Publish(core.NewEvent(reason, ""))
}

// leave transitions into LoggedOut and erases storage. It reports whether a
// transition happened.
func (s *Store) leave(ctx context.Context, reason core.EventType) bool {
	s.mu.Lock()
	wasLoggedIn := s.state == LoggedIn
	s.state = LoggedOut
	s.credential = ""
	s.profile = nil
	s.mu.Unlock()

	if err := s.credentials.Clear(ctx); err != nil {
		s.logger.Warn("could not erase stored credential", "error", err)
	}
	if wasLoggedIn {
		s.events.Publish(core.NewEvent(reason, ""))
	}
	return wasLoggedIn
}

var _ core.CredentialSource = (*Store)(nil)
