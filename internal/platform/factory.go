package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/inkwell/pkg/adapters/fs"
	lifecycleadapter "github.com/aretw0/inkwell/pkg/adapters/lifecycle"
	"github.com/aretw0/inkwell/pkg/adapters/memory"
	"github.com/aretw0/inkwell/pkg/adapters/rest"
	"github.com/aretw0/inkwell/pkg/collection"
	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/search"
	"github.com/aretw0/inkwell/pkg/session"
)

// Notebook wires the transport, the session and the note collection
// together for one notes service.
type Notebook struct {
	client      *rest.Client
	credentials core.CredentialStore
	session     *session.Store
	notes       *collection.Store
	view        *search.View
	sessionFile string
	eventBuffer int
	logger      *slog.Logger
}

// New builds a Notebook talking to apiURL (DefaultAPIURL when empty) and,
// unless WithRestore(false) is given, rehydrates the persisted session.
//
//	nb, err := platform.New("", platform.WithSessionFile("/tmp/session.json"))
func New(apiURL string, opts ...Option) (*Notebook, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	client, err := rest.NewClient(rest.Config{
		BaseURL:    apiURL,
		Timeout:    o.timeout,
		HTTPClient: o.httpClient,
		UserAgent:  o.userAgent,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("configure transport: %w", err)
	}

	credentials, sessionFile, err := o.credentialStore(logger)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(session.Config{
		Transport:   client,
		Credentials: credentials,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	client.Bind(sess)

	notes, err := collection.New(collection.Config{
		Transport: client,
		Session:   sess,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	nb := &Notebook{
		client:      client,
		credentials: credentials,
		session:     sess,
		notes:       notes,
		view:        search.NewView(notes),
		sessionFile: sessionFile,
		eventBuffer: o.eventBuffer,
		logger:      logger,
	}

	if o.restore {
		if err := sess.Restore(context.Background()); err != nil {
			logger.Warn("could not restore session", "error", err)
		}
	}
	return nb, nil
}

// credentialStore picks the durable storage for the credential and returns
// the session file path, empty when the store is not file-backed.
func (o *options) credentialStore(logger *slog.Logger) (core.CredentialStore, string, error) {
	if o.credentials != nil {
		return o.credentials, "", nil
	}
	if o.ephemeral {
		return memory.NewCredentialStore(""), "", nil
	}

	path := o.sessionFile
	if path == "" {
		var err error
		if path, err = DefaultSessionPath(); err != nil {
			return nil, "", fmt.Errorf("resolve session file: %w", err)
		}
	}

	sandbox := o.forceTemp || (IsDevRun() && o.devSafety)
	resolved := ResolveSessionPath(path, sandbox)
	if IsDevRun() {
		if sandbox {
			logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}

	file := fs.NewCredentialFile(fs.Config{
		Path:         resolved,
		Logger:       logger,
		ErrorHandler: o.errorHandler,
	})
	return file, resolved, nil
}

// Session returns the session store.
func (n *Notebook) Session() *session.Store { return n.session }

// Notes returns the note collection store.
func (n *Notebook) Notes() *collection.Store { return n.notes }

// Search filters the current collection by query.
func (n *Notebook) Search(query string) []core.Note { return n.view.Results(query) }

// Match filters the current collection by title glob, then by query.
func (n *Notebook) Match(pattern, query string) ([]core.Note, error) {
	return n.view.Match(pattern, query)
}

// SessionFile returns the resolved session file path, empty when the
// credential is not file-backed.
func (n *Notebook) SessionFile() string { return n.sessionFile }

// BaseURL returns the notes service base URL.
func (n *Notebook) BaseURL() string { return n.client.BaseURL() }

// Follow keeps the session in step with changes made by other processes
// until ctx is done.
func (n *Notebook) Follow(ctx context.Context) error {
	return n.session.Follow(ctx)
}

// Watch merges session and collection events into one channel, closed
// when ctx is done.
func (n *Notebook) Watch(ctx context.Context) <-chan core.Event {
	sessionEvents := n.session.Watch(ctx, n.eventBuffer)
	noteEvents := n.notes.Watch(ctx, n.eventBuffer)

	buffer := n.eventBuffer
	if buffer <= 0 {
		buffer = core.DefaultEventBuffer
	}
	out := make(chan core.Event, buffer)

	go func() {
		defer close(out)
		for sessionEvents != nil || noteEvents != nil {
			var e core.Event
			var ok bool
			select {
			case e, ok = <-sessionEvents:
				if !ok {
					sessionEvents = nil
					continue
				}
			case e, ok = <-noteEvents:
				if !ok {
					noteEvents = nil
					continue
				}
			}
			select {
			case out <- e:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

// Source exposes Watch as a lifecycle.Source.
func (n *Notebook) Source(ctx context.Context) lifecycle.Source {
	return lifecycleadapter.NewSource(n.Watch(ctx))
}

// Close detaches the collection from the session.
func (n *Notebook) Close() error {
	n.notes.Close()
	return nil
}
