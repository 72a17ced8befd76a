package auth

import "sync"

// MockStore implements TokenStore for testing purposes
type MockStore struct {
	token string
	mu    sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	DeleteError   error
}

// NewMockStore creates a new mock token store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Store saves the token to the mock store
func (m *MockStore) Store(token string) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" {
		return ErrInvalidToken
	}
	m.token = token

	return nil
}

// Retrieve gets the token from the mock store
func (m *MockStore) Retrieve() (string, error) {
	if m.RetrieveError != nil {
		return "", m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" {
		return "", ErrTokenNotFound
	}
	return m.token, nil
}

// Delete removes the token from the mock store
func (m *MockStore) Delete() error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		return ErrTokenNotFound
	}
	m.token = ""

	return nil
}

// Exists checks if a token is stored
func (m *MockStore) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token != ""
}
