// Package fs stores the session credential in a local file.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/inkwell/pkg/core"
)

const (
	filePerm = 0600
	dirPerm  = 0700
)

// Config holds the configuration for the credential file.
type Config struct {
	// Path is the session file (e.g. ~/.config/inkwell/session.json).
	Path   string
	Logger *slog.Logger
	// ErrorHandler receives runtime watcher failures that are otherwise only logged.
	ErrorHandler func(error)
}

// sessionFile is the on-disk format: a single key holding the credential.
type sessionFile struct {
	Token string `json:"token"`
}

// CredentialFile implements core.CredentialStore and core.Watchable on top
// of a single JSON file.
type CredentialFile struct {
	path   string
	config Config
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	writes        int
}

// NewCredentialFile creates a store for cfg.Path. Nothing touches the disk
// until a method is called.
func NewCredentialFile(cfg Config) *CredentialFile {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CredentialFile{
		path:   filepath.Clean(cfg.Path),
		config: cfg,
		logger: logger,
	}
}

// Path returns the session file location.
func (f *CredentialFile) Path() string { return f.path }

// Load reads the stored credential. A missing file means no credential.
// A corrupted file is treated the same way so the client can recover by
// logging in again.
func (f *CredentialFile) Load(ctx context.Context) (core.Credential, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read session file %s: %w", f.path, err)
	}

	var payload sessionFile
	if err := json.Unmarshal(data, &payload); err != nil {
		f.logger.Warn("ignoring unreadable session file", "path", f.path, "error", err)
		return "", false, nil
	}
	if payload.Token == "" {
		return "", false, nil
	}
	return core.Credential(payload.Token), true, nil
}

// Save writes the credential with owner-only permissions, creating the
// parent directory when needed.
func (f *CredentialFile) Save(ctx context.Context, c core.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c == "" {
		return f.Clear(ctx)
	}

	data, err := json.MarshalIndent(sessionFile{Token: string(c)}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create session directory %s: %w", dir, err)
	}
	if err := writeFileAtomic(f.path, data, filePerm); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	return nil
}

// Clear removes the session file.
func (f *CredentialFile) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file %s: %w", f.path, err)
	}

	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	return nil
}

var (
	_ core.CredentialStore = (*CredentialFile)(nil)
	_ core.Watchable       = (*CredentialFile)(nil)
)
