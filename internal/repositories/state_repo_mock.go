package repositories

import "sync"

// MockStateRepository is an in-memory implementation of StateRepository.
type MockStateRepository struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMockStateRepository creates a new instance of MockStateRepository.
func NewMockStateRepository() *MockStateRepository {
	return &MockStateRepository{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (r *MockStateRepository) Get(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key.
func (r *MockStateRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	return nil
}

// Delete removes keys.
func (r *MockStateRepository) Delete(keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}
