// In-memory settings store.
//
// Information Hiding:
// - Map storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind interface
// - Suitable for testing and ephemeral sessions

package storage

import (
	"context"
	"sync"
)

// InMemorySettings implements SettingsStore using an in-memory map.
// Data is lost when process terminates.
type InMemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemorySettings creates a store seeded with the given values.
func NewInMemorySettings(seed map[string]string) *InMemorySettings {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &InMemorySettings{values: values}
}

// Get returns the settings with defaults applied.
func (s *InMemorySettings) Get(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return settingsFromMap(s.values), nil
}

// Set writes the given keys.
func (s *InMemorySettings) Set(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

// Remove deletes a key.
func (s *InMemorySettings) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
