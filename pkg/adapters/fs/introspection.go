package fs

import "github.com/aretw0/introspection"

// CredentialFileState exposes internal state for observability.
// It never includes the credential itself.
type CredentialFileState struct {
	Path          string `json:"path"`
	WatcherActive bool   `json:"watcher_active"`
	Writes        int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (f *CredentialFile) State() any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return CredentialFileState{
		Path:          f.path,
		WatcherActive: f.watcherActive,
		Writes:        f.writes,
	}
}

// ComponentType implements introspection.Component.
func (f *CredentialFile) ComponentType() string {
	return "credential_store"
}

var _ introspection.Introspectable = (*CredentialFile)(nil)
var _ introspection.Component = (*CredentialFile)(nil)
