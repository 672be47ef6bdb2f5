// Package keystore persists the few values the client keeps between runs:
// the bearer token and the last known user record.
package keystore

import (
	"context"
	"errors"
	"sync"
)

// Keys used by the client.
const (
	TokenKey = "userToken"
	UserKey  = "userData"
)

var ErrNotFound = errors.New("keystore: key not found")

// Store is a small persistent key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory is a process-local Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
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
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }

// TokenSource adapts a Store to the api client's token lookup. A missing
// token is reported as an empty string, not an error.
type TokenSource struct {
	Store Store
}

func (s TokenSource) Token(ctx context.Context) (string, error) {
	tok, err := s.Store.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return tok, err
}
