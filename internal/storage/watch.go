package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
)

// DefaultWatchDebounce is how long a burst of events for one key is coalesced.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watch reports changes to the store's records, including edits made by other
// processes, until ctx is cancelled. onChange receives the key and runs on the
// watcher goroutine. The directory is watched rather than the files, since atomic
// writes replace them.
func (s *FileStore) Watch(ctx context.Context, debounce time.Duration, onChange func(key string)) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	log := logger.NewStyledLogger("Watcher")
	log.Debug("Watching store", "path", s.dir)

	go func() {
		defer watcher.Close()

		var mu sync.Mutex
		pending := make(map[string]*time.Timer)
		defer func() {
			mu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				key, relevant := keyForEvent(event)
				if !relevant {
					continue
				}
				mu.Lock()
				if t, exists := pending[key]; exists {
					t.Stop()
				}
				pending[key] = time.AfterFunc(debounce, func() {
					mu.Lock()
					delete(pending, key)
					mu.Unlock()
					if ctx.Err() == nil {
						log.Debug("Store record changed", "key", key)
						onChange(key)
					}
				})
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("Store watcher error", "error", err)
			}
		}
	}()

	return nil
}

func keyForEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, fileExt)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
