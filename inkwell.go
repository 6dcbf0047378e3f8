package inkwell

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/inkwell/internal/platform"
	"github.com/aretw0/inkwell/pkg/core"
)

// --- Types ---

// Notebook bundles the session, the note collection and search for one
// notes service.
type Notebook = platform.Notebook

// Config is the on-disk configuration (config.yaml).
type Config = platform.Config

// Note is a note as acknowledged by the server.
type Note = core.Note

// --- Configuration ---

// Option defines a functional option for configuring a Notebook.
type Option = platform.Option

// DefaultAPIURL is used when New is given an empty URL.
const DefaultAPIURL = platform.DefaultAPIURL

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithTimeout bounds every request to the notes service.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithHTTPClient replaces the HTTP client used by the transport.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return platform.WithUserAgent(ua)
}

// WithSessionFile sets where the credential is persisted.
func WithSessionFile(path string) Option {
	return platform.WithSessionFile(path)
}

// WithCredentialStore injects a custom credential store.
func WithCredentialStore(store core.CredentialStore) Option {
	return platform.WithCredentialStore(store)
}

// WithEphemeral keeps the credential in memory only.
func WithEphemeral(enabled bool) Option {
	return platform.WithEphemeral(enabled)
}

// WithDevSafety controls the session file sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp sandboxes the session file even outside development runs.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithRestore controls whether New rehydrates the persisted credential.
func WithRestore(enabled bool) Option {
	return platform.WithRestore(enabled)
}

// WithEventBuffer sets the channel size used by Watch.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for session file watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Notebook for the notes service at apiURL.
func New(apiURL string, opts ...Option) (*Notebook, error) {
	return platform.New(apiURL, opts...)
}

// LoadConfig reads config.yaml (path, or the default location when empty)
// with environment overrides applied.
func LoadConfig(path string) (*Config, error) {
	return platform.LoadConfig(path)
}

// --- Safety & Utils ---

// DefaultSessionPath returns where the credential is stored by default.
func DefaultSessionPath() (string, error) {
	return platform.DefaultSessionPath()
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
