package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"codeberg.org/snonux/lexirecall/internal/storage"
)

// DefaultDebounce is how long a slot waits after the last Save before
// writing the draft out.
const DefaultDebounce = 1500 * time.Millisecond

// envelope wraps a draft with the identity of the thing being edited,
// so a draft for one deck is never restored into another.
type envelope[T any] struct {
	Identity []string  `json:"identity"`
	State    T         `json:"state"`
	SavedAt  time.Time `json:"savedAt"`
}

// Slot persists an in-progress editing state under a fixed backend key,
// debouncing writes so rapid edits cost one store operation. Persistence
// failures are logged and swallowed; losing a draft must never interrupt
// the edit itself.
type Slot[T any] struct {
	backend  storage.Backend
	key      string
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *envelope[T]
}

// NewSlot creates a draft slot stored under key with the default
// debounce interval.
func NewSlot[T any](backend storage.Backend, key string) *Slot[T] {
	return &Slot[T]{
		backend:  backend,
		key:      key,
		debounce: DefaultDebounce,
	}
}

// NewSlotWithDebounce creates a draft slot with a custom debounce
// interval. A zero interval writes synchronously.
func NewSlotWithDebounce[T any](backend storage.Backend, key string, debounce time.Duration) *Slot[T] {
	return &Slot[T]{
		backend:  backend,
		key:      key,
		debounce: debounce,
	}
}

// Save schedules the draft for persistence. identity names the record
// being edited; Load only restores drafts whose identity matches.
func (s *Slot[T]) Save(identity []string, state T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &envelope[T]{
		Identity: append([]string(nil), identity...),
		State:    state,
		SavedAt:  time.Now().UTC(),
	}

	if s.debounce == 0 {
		s.flushLocked()
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.Flush)
}

// Flush writes any pending draft immediately
func (s *Slot[T]) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *Slot[T]) flushLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending == nil {
		return
	}

	data, err := json.Marshal(s.pending)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to encode draft '%s': %v\n", s.key, err)
		return
	}
	if err := s.backend.Set(s.key, data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save draft '%s': %v\n", s.key, err)
		return
	}
	s.pending = nil
}

// Load restores a stored draft if its identity matches, compared as an
// order-insensitive set. A missing, corrupt or mismatched draft reports
// no draft.
func (s *Slot[T]) Load(identity []string) (T, bool) {
	var zero T

	data, ok, err := s.backend.Get(s.key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read draft '%s': %v\n", s.key, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupt draft '%s', discarding: %v\n", s.key, err)
		return zero, false
	}

	if !sameIdentity(env.Identity, identity) {
		return zero, false
	}
	return env.State, true
}

// Clear drops both the pending and the stored draft. Called once the
// edit is committed or abandoned.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.mu.Unlock()

	if err := s.backend.Delete(s.key); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to clear draft '%s': %v\n", s.key, err)
	}
}

func sameIdentity(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
