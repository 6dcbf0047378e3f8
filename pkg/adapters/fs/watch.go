package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 50 * time.Millisecond

// Watch reports changes to the session file made by any process, including
// this one. The parent directory is watched because atomic writes replace
// the file with a rename. Bursts are collapsed; the channel holds at most
// one pending notification and is closed when ctx is done.
func (f *CredentialFile) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create session directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	f.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		debounce := newDebouncer(watchDebounce)
		defer func() {
			debounce.stopAndWait()
			_ = watcher.Close()
			f.setWatcherActive(false)
			close(out)
		}()
		return f.watchLoop(ctx, watcher, debounce, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		f.handleWatchError(fmt.Errorf("session watcher: %w", err))
	}))

	return out, nil
}

func (f *CredentialFile) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce *debouncer, out chan struct{}) error {
	name := filepath.Base(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			base := filepath.Base(event.Name)
			if base != name || strings.HasPrefix(base, TempFilePrefix) {
				continue
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			f.logger.Debug("session file changed", "path", event.Name, "op", event.Op.String())
			debounce.trigger(func() {
				select {
				case out <- struct{}{}:
				default: // a notification is already pending
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			f.handleWatchError(err)
		}
	}
}

func (f *CredentialFile) handleWatchError(err error) {
	f.logger.Error("session watcher error", "error", err)
	if f.config.ErrorHandler != nil {
		f.config.ErrorHandler(err)
	}
}

func (f *CredentialFile) setWatcherActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watcherActive = active
}
