// Package memory provides an in-process credential store, used by
// ephemeral sessions and tests.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/inkwell/pkg/core"
)

// CredentialStore keeps the credential in memory. The zero value is empty
// and ready to use.
type CredentialStore struct {
	mu         sync.Mutex
	credential core.Credential
	watchers   []chan struct{}
}

// NewCredentialStore returns a store pre-loaded with c (empty means none).
func NewCredentialStore(c core.Credential) *CredentialStore {
	return &CredentialStore{credential: c}
}

func (s *CredentialStore) Load(ctx context.Context) (core.Credential, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, s.credential != "", nil
}

func (s *CredentialStore) Save(ctx context.Context, c core.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.set(c)
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.set("")
	return nil
}

// Watch notifies on every Save or Clear until ctx is done.
func (s *CredentialStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (s *CredentialStore) set(c core.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = c
	for _, w := range s.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

var (
	_ core.CredentialStore = (*CredentialStore)(nil)
	_ core.Watchable       = (*CredentialStore)(nil)
)
