// Package viewstate holds the process-wide navigation state of the board:
// the deal the user opened most recently. The store is persisted as a small
// JSON file so the highlight survives restarts and can be set from another
// shell with `pipeboard open`.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"

	"github.com/pipeboard/pipeboard/internal/logging"
)

// FileName is the default file name inside the config directory.
const FileName = "viewstate.json"

// watchDebounce coalesces the burst of events editors and renames produce.
const watchDebounce = 50 * time.Millisecond

type persisted struct {
	LastViewedDealID string    `json:"lastViewedDealId,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Store is the single owner of lastViewedDealId. It is safe for concurrent use.
type Store struct {
	path   string
	logger *logging.Logger

	mu         sync.RWMutex
	lastViewed string
}

// Open loads the store from path. A missing file yields an empty store.
// An empty path gives an in-memory store that never touches disk.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	s := &Store{path: path, logger: logger.WithComponent("viewstate")}
	if path == "" {
		return s, nil
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns a store without persistence.
func NewMemory() *Store {
	s, _ := Open("", nil)
	return s
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// LastViewedDealID returns the most recently opened deal, if any.
func (s *Store) LastViewedDealID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastViewed, s.lastViewed != ""
}

// SetLastViewedDealID records id as the most recently opened deal and
// persists it. The in-memory value is updated even if the write fails.
func (s *Store) SetLastViewedDealID(id string) error {
	s.mu.Lock()
	s.lastViewed = id
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	return s.save(id)
}

func (s *Store) save(id string) error {
	data, err := sonic.ConfigStd.MarshalIndent(persisted{
		LastViewedDealID: id,
		UpdatedAt:        time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create view state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Reload re-reads the backing file and reports whether the value changed.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.replace(""), nil
	}
	if err != nil {
		return false, fmt.Errorf("read view state: %w", err)
	}

	var p persisted
	if err := sonic.ConfigStd.Unmarshal(data, &p); err != nil {
		return false, fmt.Errorf("parse view state %s: %w", s.path, err)
	}
	return s.replace(p.LastViewedDealID), nil
}

func (s *Store) replace(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.lastViewed != id
	s.lastViewed = id
	return changed
}

// Watch follows external writes to the backing file (for example from
// `pipeboard open` in another shell) and calls onChange with the new value
// whenever it differs. The watcher stops when ctx is done or stop is called;
// stop waits for the watch goroutine to exit.
func (s *Store) Watch(ctx context.Context, onChange func(id string)) (stop func(), err error) {
	if s.path == "" {
		return func() {}, nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create view state directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// The file is replaced by rename, so watch the directory.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.watchLoop(ctx, watcher, onChange)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			_ = watcher.Close()
		})
	}, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(string)) {
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			changed, err := s.Reload()
			if err != nil {
				s.logger.Warn("failed to reload view state", "error", err)
				continue
			}
			if changed && onChange != nil {
				id, _ := s.LastViewedDealID()
				s.logger.Debug("view state changed externally", "deal_id", id)
				onChange(id)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("view state watcher error", "error", err)
		}
	}
}
