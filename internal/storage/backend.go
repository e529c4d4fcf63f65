package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/snonux/lexirecall/internal"
)

// Backend is the key-value persistence seam. It is initialized once per
// process and assumes a single writer; concurrent writers from other
// processes are not coordinated and the last write wins.
type Backend interface {
	// Get reads the value stored under key. The second return value is
	// false when the key is absent.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileBackend stores each key as a file in a single directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// DefaultStateDir returns the default storage location,
// ~/.local/state/lexirecall.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "lexirecall")
	}
	return filepath.Join(home, ".local", "state", "lexirecall")
}

// Dir returns the backing directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, internal.SanitizeFilename(key)+".json")
}

// Get reads the value stored under key
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key
func (b *FileBackend) Set(key string, value []byte) error {
	if err := os.WriteFile(b.path(key), value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// MemoryBackend is an in-memory Backend for tests.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string][]byte),
	}
}

// Get reads the value stored under key
func (b *MemoryBackend) Get(key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, value...), true, nil
}

// Set stores value under key
func (b *MemoryBackend) Set(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[key] = append([]byte{}, value...)
	return nil
}

// Delete removes key
func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.values, key)
	return nil
}

// Len returns the number of stored keys
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}
