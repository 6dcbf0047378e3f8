package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/inkwell/pkg/core"
)

// options holds the internal configuration for a Notebook.
type options struct {
	logger       *slog.Logger
	timeout      time.Duration
	httpClient   *http.Client
	userAgent    string
	sessionFile  string
	credentials  core.CredentialStore
	ephemeral    bool
	devSafety    bool
	forceTemp    bool
	restore      bool
	eventBuffer  int
	errorHandler func(error)
}

// Option defines a functional option for configuring a Notebook.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety:   true,
		restore:     true,
		eventBuffer: core.DefaultEventBuffer,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTimeout bounds every request to the notes service.
// Zero means the transport default (30s).
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client used by the transport.
// WithTimeout has no effect when this is set.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithSessionFile sets where the credential is persisted.
// Defaults to DefaultSessionPath().
func WithSessionFile(path string) Option {
	return func(o *options) {
		o.sessionFile = path
	}
}

// WithCredentialStore injects a custom credential store (e.g. a keyring).
// The session file options are ignored when set.
func WithCredentialStore(store core.CredentialStore) Option {
	return func(o *options) {
		o.credentials = store
	}
}

// WithEphemeral keeps the credential in memory only; nothing touches disk.
func WithEphemeral(enabled bool) Option {
	return func(o *options) {
		o.ephemeral = enabled
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) the session file is moved into a temporary directory so
// development runs never overwrite the user's real session.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp sandboxes the session file even outside development runs.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithRestore controls whether New rehydrates the persisted credential.
// Defaults to true.
func WithRestore(enabled bool) Option {
	return func(o *options) {
		o.restore = enabled
	}
}

// WithEventBuffer sets the channel size used by Watch.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for runtime failures of the
// session file watcher, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
