package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/inkwell/pkg/adapters/memory"
	"github.com/aretw0/inkwell/pkg/core"
)

func newTestStore(t *testing.T, transport *fakeTransport, creds *memory.CredentialStore) *Store {
	t.Helper()
	if creds == nil {
		creds = memory.NewCredentialStore("")
	}
	s, err := New(Config{Transport: transport, Credentials: creds})
	require.NoError(t, err)
	return s
}

type eventLog struct {
	mu     sync.Mutex
	events []core.EventType
}

func (l *eventLog) record(e core.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e.Type)
}

func (l *eventLog) types() []core.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.EventType(nil), l.events...)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{Credentials: memory.NewCredentialStore("")})
	assert.Error(t, err)
	_, err = New(Config{Transport: &fakeTransport{}})
	assert.Error(t, err)
}

func TestLogin_RejectsNonEmailWithoutNetwork(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		identifier := rapid.String().Filter(func(s string) bool {
			return !strings.Contains(s, "@")
		}).Draw(rt, "identifier")
		secret := rapid.String().Draw(rt, "secret")

		transport := &fakeTransport{}
		s, err := New(Config{Transport: transport, Credentials: memory.NewCredentialStore("")})
		if err != nil {
			rt.Fatalf("new: %v", err)
		}

		err = s.Login(context.Background(), identifier, secret)
		if !errors.Is(err, core.ErrInvalidInput) {
			rt.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if n := len(transport.Calls()); n != 0 {
			rt.Fatalf("expected no network calls, got %d", n)
		}
		if s.Status() != LoggedOut {
			rt.Fatalf("expected logged out")
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Persists And Notifies", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return okResponse(`{"access_token":"tok-1","token_type":"bearer"}`)
		}}
		creds := memory.NewCredentialStore("")
		s := newTestStore(t, transport, creds)
		log := &eventLog{}
		s.Subscribe(log.record)

		require.NoError(t, s.Login(ctx, "ada@example.com", "hunter22"))

		calls := transport.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPost, calls[0].Method)
		assert.Equal(t, "/login", calls[0].Path)
		form, isForm := calls[0].Body.(url.Values)
		require.True(t, isForm)
		assert.Equal(t, "ada@example.com", form.Get("username"))
		assert.Equal(t, "hunter22", form.Get("password"))

		c, ok := s.CurrentCredential()
		assert.True(t, ok)
		assert.Equal(t, core.Credential("tok-1"), c)
		assert.Equal(t, LoggedIn, s.Status())

		stored, found, err := creds.Load(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, core.Credential("tok-1"), stored)

		assert.Equal(t, []core.EventType{core.EventLogin}, log.types())
	})

	t.Run("Rejected Carries Server Message", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return rejected(http.StatusBadRequest, "Invalid credentials")
		}}
		creds := memory.NewCredentialStore("")
		s := newTestStore(t, transport, creds)

		err := s.Login(ctx, "ada@example.com", "wrong")
		var rej *core.RejectedError
		require.True(t, errors.As(err, &rej))
		assert.Equal(t, "Invalid credentials", rej.Message)

		_, ok := s.CurrentCredential()
		assert.False(t, ok)
		_, found, _ := creds.Load(ctx)
		assert.False(t, found)
	})

	t.Run("Unreachable", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return unreachable(method, path)
		}}
		s := newTestStore(t, transport, nil)

		err := s.Login(ctx, "ada@example.com", "pw")
		assert.True(t, errors.Is(err, core.ErrUnreachable))
		assert.Equal(t, LoggedOut, s.Status())
	})

	t.Run("Missing Token Is Rejection", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return okResponse(`{"token_type":"bearer"}`)
		}}
		s := newTestStore(t, transport, nil)

		err := s.Login(ctx, "ada@example.com", "pw")
		var rej *core.RejectedError
		assert.True(t, errors.As(err, &rej))
		assert.Equal(t, LoggedOut, s.Status())
	})

	t.Run("Replaces Prior Session", func(t *testing.T) {
		token := "tok-a"
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			switch path {
			case "/login":
				return okResponse(`{"access_token":"` + token + `"}`)
			case "/me":
				return okResponse(`{"id":1,"email":"a@example.com"}`)
			}
			return rejected(http.StatusNotFound, "")
		}}
		s := newTestStore(t, transport, nil)

		require.NoError(t, s.Login(ctx, "a@example.com", "pw"))
		_, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.True(t, s.State().(StoreState).HasProfile)

		token = "tok-b"
		require.NoError(t, s.Login(ctx, "b@example.com", "pw"))
		c, _ := s.CurrentCredential()
		assert.Equal(t, core.Credential("tok-b"), c)
		assert.False(t, s.State().(StoreState).HasProfile)
	})
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Mismatch Never Reaches Network", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			secret := rapid.String().Draw(rt, "secret")
			confirm := rapid.String().Filter(func(s string) bool { return s != secret }).Draw(rt, "confirm")

			transport := &fakeTransport{}
			s, _ := New(Config{Transport: transport, Credentials: memory.NewCredentialStore("")})

			err := s.Signup(context.Background(), "ada@example.com", secret, confirm)
			if !errors.Is(err, core.ErrPasswordMismatch) {
				rt.Fatalf("expected ErrPasswordMismatch, got %v", err)
			}
			if n := len(transport.Calls()); n != 0 {
				rt.Fatalf("expected no network calls, got %d", n)
			}
		})
	})

	t.Run("Too Short", func(t *testing.T) {
		transport := &fakeTransport{}
		s := newTestStore(t, transport, nil)

		err := s.Signup(ctx, "ada@example.com", "12345", "12345")
		assert.ErrorIs(t, err, core.ErrPasswordTooShort)
		assert.Empty(t, transport.Calls())

		// Six runes, more bytes.
		assert.NoError(t, ValidatePassword("ññññññ", "ññññññ"))
	})

	t.Run("Success Does Not Log In", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return &core.Response{StatusCode: http.StatusCreated, Body: []byte(`{"message":"User created successfully"}`)}, nil
		}}
		s := newTestStore(t, transport, nil)

		require.NoError(t, s.Signup(ctx, "ada@example.com", "secret1", "secret1"))
		calls := transport.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "/signup", calls[0].Path)
		assert.Equal(t, signupRequest{Email: "ada@example.com", Password: "secret1"}, calls[0].Body)
		assert.Equal(t, LoggedOut, s.Status())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return rejected(http.StatusBadRequest, "Email already registered")
		}}
		s := newTestStore(t, transport, nil)

		err := s.Signup(ctx, "ada@example.com", "secret1", "secret1")
		var rej *core.RejectedError
		require.True(t, errors.As(err, &rej))
		assert.Equal(t, "Email already registered", rej.Message)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	creds := memory.NewCredentialStore("tok-1")
	s := newTestStore(t, &fakeTransport{}, creds)
	require.NoError(t, s.Restore(ctx))

	log := &eventLog{}
	s.Subscribe(log.record)

	s.Logout()
	assert.Equal(t, LoggedOut, s.Status())
	_, found, _ := creds.Load(ctx)
	assert.False(t, found)

	// Logging out twice is harmless and silent.
	s.Logout()
	assert.Equal(t, []core.EventType{core.EventLogout}, log.types())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("Trusts Stored Credential Without Network", func(t *testing.T) {
		transport := &fakeTransport{}
		s := newTestStore(t, transport, memory.NewCredentialStore("tok-old"))

		require.NoError(t, s.Restore(ctx))
		c, ok := s.CurrentCredential()
		assert.True(t, ok)
		assert.Equal(t, core.Credential("tok-old"), c)
		assert.Empty(t, transport.Calls())
		assert.True(t, s.State().(StoreState).Restored)
	})

	t.Run("Expired JWT Is Still Trusted", func(t *testing.T) {
		token := signedToken(t, "ada@example.com", time.Now().Add(-time.Hour))
		s := newTestStore(t, &fakeTransport{}, memory.NewCredentialStore(core.Credential(token)))

		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, LoggedIn, s.Status())
	})

	t.Run("Nothing Stored", func(t *testing.T) {
		s := newTestStore(t, &fakeTransport{}, nil)
		require.NoError(t, s.Restore(ctx))
		assert.Equal(t, LoggedOut, s.Status())
	})
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &fakeTransport{}, memory.NewCredentialStore("tok-new"))
	require.NoError(t, s.Restore(ctx))

	log := &eventLog{}
	s.Subscribe(log.record)

	s.Expire("tok-stale")
	assert.Equal(t, LoggedIn, s.Status(), "a stale credential must not end the current session")

	s.Expire("tok-new")
	assert.Equal(t, LoggedOut, s.Status())
	assert.Equal(t, []core.EventType{core.EventExpired}, log.types())
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Logged Out", func(t *testing.T) {
		transport := &fakeTransport{}
		s := newTestStore(t, transport, nil)
		_, err := s.Profile(ctx)
		assert.ErrorIs(t, err, core.ErrUnauthenticated)
		assert.Empty(t, transport.Calls())
	})

	t.Run("Fetched Once Per Credential", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return okResponse(`{"id":7,"email":"ada@example.com"}`)
		}}
		s := newTestStore(t, transport, memory.NewCredentialStore("tok"))
		require.NoError(t, s.Restore(ctx))

		for i := 0; i < 3; i++ {
			p, err := s.Profile(ctx)
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", p.Email)
		}
		assert.Len(t, transport.Calls(), 1)
	})

	t.Run("Rejected Credential Ends Session", func(t *testing.T) {
		transport := &fakeTransport{handler: func(method, path string, body any) (*core.Response, error) {
			return rejected(http.StatusUnauthorized, "Invalid or expired token")
		}}
		creds := memory.NewCredentialStore("tok")
		s := newTestStore(t, transport, creds)
		require.NoError(t, s.Restore(ctx))

		_, err := s.Profile(ctx)
		assert.ErrorIs(t, err, core.ErrUnauthenticated)
		assert.Equal(t, LoggedOut, s.Status())
		_, found, _ := creds.Load(ctx)
		assert.False(t, found)
	})
}

func TestFollow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds := memory.NewCredentialStore("tok-1")
	s := newTestStore(t, &fakeTransport{}, creds)
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.Follow(ctx))

	// Another client logs in with a different account.
	require.NoError(t, creds.Save(ctx, "tok-2"))
	assert.Eventually(t, func() bool {
		c, _ := s.CurrentCredential()
		return c == "tok-2"
	}, time.Second, 10*time.Millisecond)

	// Another client logs out.
	require.NoError(t, creds.Clear(ctx))
	assert.Eventually(t, func() bool {
		return s.Status() == LoggedOut
	}, time.Second, 10*time.Millisecond)
}

func TestFollow_NotWatchable(t *testing.T) {
	var store core.CredentialStore = struct{ core.CredentialStore }{memory.NewCredentialStore("")}
	s, err := New(Config{Transport: &fakeTransport{}, Credentials: store})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Follow(context.Background()), ErrNotWatchable)
}

func signedToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": expires.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestInspect(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, ok := Inspect(core.Credential(signedToken(t, "ada@example.com", expires)))
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Equal(expires))
	assert.False(t, claims.Expired())

	_, ok = Inspect("opaque-token")
	assert.False(t, ok)
	_, ok = Inspect("")
	assert.False(t, ok)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b", "ada@example.com", "first.last+tag@sub.example.org"}
	for _, v := range valid {
		assert.NoError(t, ValidateEmail(v), v)
	}
	invalid := []string{"", "@", "ada", "ada@", "@example.com", "ada @example.com"}
	for _, v := range invalid {
		assert.ErrorIs(t, ValidateEmail(v), core.ErrInvalidInput, v)
	}
}
