package kv

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Storage used by tests.
// It mirrors SQLite semantics for missing and empty keys.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Storage = (*Memory)(nil)

// NewMemory creates an empty Memory storage.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Close is a no-op for Memory.
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("kv: set: empty key")
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) MultiGet(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *Memory) MultiSet(_ context.Context, pairs map[string]string) error {
	for k := range pairs {
		if k == "" {
			return fmt.Errorf("kv: multi set: empty key")
		}
	}
	m.mu.Lock()
	for k, v := range pairs {
		m.values[k] = v
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) MultiRemove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.values, k)
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
