package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Response is a successful (2xx) reply from the remote service.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Transport sends requests to the remote service.
// Implementations attach the active credential, return *RejectedError for
// non-2xx responses and an error matching ErrUnavailable when no response
// was received.
type Transport interface {
	Send(ctx context.Context, method, path string, body any) (*Response, error)
}

// CredentialSource exposes the active credential to a Transport.
type CredentialSource interface {
	CurrentCredential() (Credential, bool)
}

// CredentialStore is the durable client-local storage holding at most one
// credential.
type CredentialStore interface {
	// Load returns the stored credential, ok=false when none is stored.
	Load(ctx context.Context) (c Credential, ok bool, err error)

	// Save replaces the stored credential.
	Save(ctx context.Context, c Credential) error

	// Clear erases the stored credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Watchable is implemented by credential stores that can report changes
// made outside this process.
type Watchable interface {
	// Watch emits a value every time the stored credential may have changed.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
