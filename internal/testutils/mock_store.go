package testutils

import (
	"sync"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// MockStore implements onyxtypes.KVStore for testing, with injectable errors and
// call counters.
type MockStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// For testing error scenarios
	getError    error
	setError    error
	deleteError error

	Gets    int
	Sets    int
	Deletes int
}

var _ onyxtypes.KVStore = (*MockStore)(nil)

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

// NewMockStoreWith creates a mock store holding one raw record.
func NewMockStoreWith(key string, value string) *MockStore {
	s := NewMockStore()
	s.data[key] = []byte(value)
	return s
}

// Get implements KVStore.Get
func (m *MockStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.getError != nil {
		return nil, false, m.getError
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements KVStore.Set
func (m *MockStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.setError != nil {
		return m.setError
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Delete implements KVStore.Delete
func (m *MockStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.data, key)
	return nil
}

// Close implements KVStore.Close
func (m *MockStore) Close() error {
	return nil
}

// Raw returns the stored bytes for key as a string, "" when absent.
func (m *MockStore) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

// SetRaw overwrites a record directly, bypassing error injection.
func (m *MockStore) SetRaw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(value)
}

// SetGetError sets an error to be returned by Get
func (m *MockStore) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetSetError sets an error to be returned by Set
func (m *MockStore) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setError = err
}

// SetDeleteError sets an error to be returned by Delete
func (m *MockStore) SetDeleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
}
