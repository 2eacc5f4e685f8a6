// Package store defines the persistence port for CV documents and its
// in-memory, Redis, and PostgreSQL implementations. Documents are stored as
// opaque JSON strings under a key derived from the job context id.
package store

import (
	"context"
	"fmt"
	"sync"
)

// Store is the narrow persistence interface the engine writes through.
// Get reports whether a value exists; a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Key builds the storage key for a job context's document
func Key(jobContextID string) string {
	return fmt.Sprintf("cv-doc:%s", jobContextID)
}

// Memory is a threadsafe in-process Store, used in tests and as the
// fallback when no backend is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the stored value for key, if any
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

// Set stores value under key, replacing any previous value
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
