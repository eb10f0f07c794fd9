package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sprintlab/sprint-api/internal/store"
)

// MockPreferenceStore is an in-memory store.PreferenceStore for testing.
// An Err forces every operation to fail with it.
type MockPreferenceStore struct {
	Err error

	mu     sync.Mutex
	values map[string]string
}

// Ensure MockPreferenceStore implements the interface
var _ store.PreferenceStore = (*MockPreferenceStore)(nil)

func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{values: make(map[string]string)}
}

func prefKey(userID uuid.UUID, key string) string {
	return userID.String() + ":" + key
}

func (m *MockPreferenceStore) Get(_ context.Context, userID uuid.UUID, key string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[prefKey(userID, key)]
	if !ok {
		return "", fmt.Errorf("%w: preference %q", store.ErrNotFound, key)
	}
	return val, nil
}

func (m *MockPreferenceStore) GetAll(_ context.Context, userID uuid.UUID) (map[string]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string)
	prefix := userID.String() + ":"
	for k, v := range m.values {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out[k[len(prefix):]] = v
		}
	}
	return out, nil
}

func (m *MockPreferenceStore) Set(_ context.Context, userID uuid.UUID, key, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[prefKey(userID, key)] = value
	return nil
}

func (m *MockPreferenceStore) Delete(_ context.Context, userID uuid.UUID, key string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, prefKey(userID, key))
	return nil
}
