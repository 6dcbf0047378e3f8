package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkwell/pkg/core"
)

type staticSource struct {
	credential core.Credential
}

func (s staticSource) CurrentCredential() (core.Credential, bool) {
	return s.credential, s.credential != ""
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/api/v1/"})
	require.NoError(t, err)
	return client, server
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	client, err := NewClient(Config{BaseURL: "http://example.com/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", client.BaseURL())
}

func TestSend_AttachesCredential(t *testing.T) {
	var gotAuth, gotRequestID, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	})

	t.Run("Unauthenticated Without Source", func(t *testing.T) {
		resp, err := client.Send(context.Background(), http.MethodGet, "/notes", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, gotAuth)
		assert.NotEmpty(t, gotRequestID)
		assert.Equal(t, "/api/v1/notes", gotPath)
	})

	t.Run("Unauthenticated With Empty Source", func(t *testing.T) {
		client.Bind(staticSource{})
		_, err := client.Send(context.Background(), http.MethodGet, "/notes", nil)
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})

	t.Run("Bearer With Credential", func(t *testing.T) {
		client.Bind(staticSource{credential: "tok-123"})
		_, err := client.Send(context.Background(), http.MethodGet, "/notes", nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", gotAuth)
	})
}

func TestSend_EncodesBody(t *testing.T) {
	var contentType, body string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1,"title":"a","content":"b"}`))
	})

	t.Run("Form", func(t *testing.T) {
		_, err := client.Send(context.Background(), http.MethodPost, "/login", url.Values{"username": {"a@b.c"}})
		require.NoError(t, err)
		assert.Equal(t, "application/x-www-form-urlencoded", contentType)
		assert.Equal(t, "username=a%40b.c", body)
	})

	t.Run("JSON", func(t *testing.T) {
		resp, err := client.Send(context.Background(), http.MethodPost, "/notes", core.NoteInput{Title: "a", Content: "b"})
		require.NoError(t, err)
		assert.Equal(t, "application/json", contentType)
		assert.JSONEq(t, `{"title":"a","content":"b"}`, body)

		var note core.Note
		require.NoError(t, resp.Decode(&note))
		assert.Equal(t, core.NoteID("1"), note.ID)
	})
}

func TestSend_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"Detail String", http.StatusBadRequest, `{"detail":"Email already registered"}`, "Email already registered"},
		{"Detail List", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, "value is not a valid email address"},
		{"Error Field", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
		{"No Detail", http.StatusNotFound, `{}`, ""},
		{"Not JSON", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.Send(context.Background(), http.MethodGet, "/notes", nil)
			require.Error(t, err)

			var rejected *core.RejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, tc.status, rejected.StatusCode)
			assert.Equal(t, tc.message, rejected.Message)
			assert.Equal(t, tc.message != "", rejected.HasMessage())
			assert.False(t, errors.Is(err, core.ErrUnavailable))
		})
	}

	t.Run("401 Is Auth Rejection", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid or expired token"}`))
		})
		_, err := client.Send(context.Background(), http.MethodGet, "/me", nil)
		assert.True(t, core.IsAuthRejection(err))
	})
}

func TestSend_Unavailable(t *testing.T) {
	t.Run("Server Gone", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		base := server.URL
		server.Close()

		client, err := NewClient(Config{BaseURL: base})
		require.NoError(t, err)

		_, err = client.Send(context.Background(), http.MethodGet, "/notes", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrUnavailable))

		var transportErr *core.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "/notes", transportErr.Path)
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client, err := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = client.Send(context.Background(), http.MethodGet, "/notes", nil)
		assert.True(t, errors.Is(err, core.ErrUnavailable))
	})
}

func TestClient_State(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	client.Send(context.Background(), http.MethodGet, "/notes", nil)

	state := client.State().(ClientState)
	assert.Equal(t, 1, state.Requests)
	assert.Equal(t, 1, state.Failures)
	assert.False(t, state.Bound)
	assert.Equal(t, "transport", client.ComponentType())
}
